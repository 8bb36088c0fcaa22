package documents

// DocumentSummary is the outward-facing list entry. ID is the storage filename.
type DocumentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

type uploadResponse struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
}

type deleteRequest struct {
	Filename string `json:"filename"`
}

func toSummary(doc Document) DocumentSummary {
	return DocumentSummary{ID: doc.Filename, Name: doc.OriginalName}
}
