package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"study-backend/internal/apiclient"
	"study-backend/internal/extract"
	"study-backend/internal/shared/config"
)

const usage = `usage: studyctl [-api URL] [-token TOKEN] <command> [args]

commands:
  register <email> <password> [name]
  login <email> <password>        prints the bearer token
  me
  upload <file>
  docs
  delete <filename>
  chat <filename> <question...>
  history <filename>
  summary <filename>
  quiz <filename>
  extract <file>                  extract text locally without the API`

func main() {
	cfg := config.LoadClient()

	apiURL := flag.String("api", cfg.APIURL, "API base URL including /api")
	token := flag.String("token", cfg.Token, "bearer token (defaults to STUDY_TOKEN)")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Usage = func() { _, _ = fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := apiclient.New(*apiURL, nil)
	client.SetToken(*token)

	if err := run(ctx, client, args[0], args[1:]); err != nil {
		exitErr(err.Error())
	}
}

func run(ctx context.Context, c *apiclient.Client, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) < 2 {
			return fmt.Errorf("register needs <email> <password>")
		}
		name := ""
		if len(args) > 2 {
			name = strings.Join(args[2:], " ")
		}
		if err := c.Register(ctx, args[0], args[1], name); err != nil {
			return err
		}
		fmt.Println("registered")
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <email> <password>")
		}
		token, err := c.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(token)
	case "me":
		profile, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(profile)
	case "upload":
		if len(args) != 1 {
			return fmt.Errorf("upload needs <file>")
		}
		res, err := c.UploadFile(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", res.Filename, res.OriginalName)
	case "docs":
		docs, err := c.Documents(ctx)
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Printf("%s\t%s\n", d.ID, d.Name)
		}
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete needs <filename>")
		}
		if err := c.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
	case "chat":
		if len(args) < 2 {
			return fmt.Errorf("chat needs <filename> <question>")
		}
		answer, err := c.Chat(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println(answer)
	case "history":
		if len(args) != 1 {
			return fmt.Errorf("history needs <filename>")
		}
		msgs, err := c.History(ctx, args[0])
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Printf("[%s] %s\n", m.Role, m.Content)
		}
	case "summary":
		if len(args) != 1 {
			return fmt.Errorf("summary needs <filename>")
		}
		summary, err := c.Summary(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(summary)
	case "quiz":
		if len(args) != 1 {
			return fmt.Errorf("quiz needs <filename>")
		}
		quiz, err := c.Quiz(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(quiz)
	case "extract":
		if len(args) != 1 {
			return fmt.Errorf("extract needs <file>")
		}
		text, err := extract.ExtractFile(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(text)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
