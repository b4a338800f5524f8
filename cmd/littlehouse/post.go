package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/content"
)

type newPostCommand struct {
	Title      string   `long:"title" short:"t" required:"true" description:"Post title"`
	Excerpt    string   `long:"excerpt" description:"Short summary shown in listings"`
	Category   string   `long:"category" short:"c" description:"Category (default 日常记录)"`
	Tags       []string `long:"tag" description:"Tag; repeat or separate with commas"`
	Author     string   `long:"author" description:"Author (default 小屋主人)"`
	CoverImage string   `long:"cover" description:"Cover image URL"`
	Published  bool     `long:"published" short:"p" description:"Publish immediately instead of saving a draft"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"Markdown body; standard input when omitted or -"`
	} `positional-args:"yes"`
}

func (c *newPostCommand) Execute(args []string) error {
	body, err := readBody(c.Args.File)
	if err != nil {
		return err
	}

	store := content.NewStore(opts.PostsDir)
	name, err := store.Create(content.Fields{
		Title:      c.Title,
		Content:    body,
		Excerpt:    c.Excerpt,
		Category:   c.Category,
		Tags:       littlehouse.SplitTags(c.Tags),
		Author:     c.Author,
		CoverImage: c.CoverImage,
		Published:  c.Published,
	})
	if err != nil {
		return err
	}

	state := "draft"
	if c.Published {
		state = "published"
	}
	fmt.Printf("%s %s\n", state, filepath.Join(store.Dir(), name))
	return nil
}

func readBody(file string) (string, error) {
	var r io.Reader = os.Stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

type hashPasswordCommand struct {
	Password string `long:"password" env:"ADMIN_PASSWORD" description:"Passphrase to hash; read from standard input when empty"`
}

func (c *hashPasswordCommand) Execute(args []string) error {
	pass := c.Password
	if pass == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		pass = strings.TrimRight(line, "\r\n")
	}
	if pass == "" {
		return errors.New("empty passphrase")
	}
	hash, err := littlehouse.HashPassword(pass)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
