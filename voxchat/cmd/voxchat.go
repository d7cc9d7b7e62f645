// Command-line client for a voxchat server
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"voxchat/voxchat/client"
	"voxchat/voxchat/utils/color"

	"golang.org/x/term"
)

const requestTimeout = 90 * time.Second

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("VOXCHAT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	c := client.New(baseURL, requestTimeout)
	in := bufio.NewReader(os.Stdin)

	switch args[0] {
	case "register", "login":
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		if err := authenticate(c, in, args[0], args[1]); err != nil {
			fmt.Println(color.ColorError(err.Error()))
			os.Exit(1)
		}
	case "chat":
		token := os.Getenv("VOXCHAT_TOKEN")
		if token == "" {
			fmt.Println(color.ColorError("VOXCHAT_TOKEN is not set"))
			os.Exit(1)
		}
		c.SetToken(token)
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println(color.ColorInfo("Connected to " + baseURL))
	fmt.Println("Type a message, /history to show the conversation, or exit to quit.")
	fmt.Println()
	repl(c, in)
}

func usage() {
	fmt.Println("voxchat CLI usage:")
	fmt.Println("  voxchat register <email>   # create an account and start chatting")
	fmt.Println("  voxchat login <email>      # log in and start chatting")
	fmt.Println("  voxchat chat               # chat with the token in VOXCHAT_TOKEN")
}

func authenticate(c *client.Client, in *bufio.Reader, mode, email string) error {
	password, err := readPassword(in)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if mode == "register" {
		fmt.Print(color.ColorPrompt("Name (optional): "))
		line, _ := in.ReadString('\n')
		var name *string
		if n := strings.TrimSpace(line); n != "" {
			name = &n
		}
		err = c.Register(ctx, email, password, name)
	} else {
		err = c.Login(ctx, email, password)
	}
	if err != nil {
		return err
	}
	fmt.Println(color.ColorInfo("Token: ") + c.Token())
	return nil
}

// readPassword hides input on a terminal and falls back to a plain line
// read when stdin is piped.
func readPassword(in *bufio.Reader) (string, error) {
	fmt.Print(color.ColorPrompt("Password: "))
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password given")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func repl(c *client.Client, in *bufio.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print(color.ColorPrompt("you> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			return
		}
		if line == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		if line == "/history" {
			printHistory(ctx, c)
			cancel()
			continue
		}
		reply, err := c.Chat(ctx, line)
		cancel()
		if err != nil {
			fmt.Println(color.ColorError(err.Error()))
			continue
		}
		fmt.Println(color.ColorRole("assistant", "assistant> ") + reply)
		fmt.Println()
	}
}

func printHistory(ctx context.Context, c *client.Client) {
	msgs, err := c.Messages(ctx)
	if err != nil {
		fmt.Println(color.ColorError(err.Error()))
		return
	}
	if len(msgs) == 0 {
		fmt.Println(color.ColorWarning("No messages yet."))
		return
	}
	for _, m := range msgs {
		stamp := m.Timestamp.Local().Format("2006-01-02 15:04")
		fmt.Printf("%s %s %s\n", stamp, color.ColorRole(m.Role, m.Role+">"), m.Content)
	}
	fmt.Println()
}
