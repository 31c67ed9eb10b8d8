// erpcli is a small terminal client for the storefront backend built on the
// authenticated API client: it persists the session to disk and transparently
// refreshes the access token on 401.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/ebikepoint/erp/apiclient"
	"github.com/ebikepoint/erp/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %s\n", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	store := apiclient.NewFileStore(cfg.Client.SessionPath)
	client := apiclient.New(cfg.Client.BaseURL, store,
		apiclient.WithTimeout(cfg.Client.Timeout),
		apiclient.WithNotifier(apiclient.LogNotifier{Log: logger}),
		apiclient.WithOnSessionExpired(func() {
			fmt.Fprintln(os.Stderr, "Session expired; run 'erpcli login' to sign in again.")
		}),
	)

	ctx := context.Background()
	if err := dispatch(ctx, client, store, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %s\n", os.Args[1], err)
	}
}

func dispatch(ctx context.Context, client *apiclient.Client, store apiclient.SessionStore, command string, args []string) error {
	switch command {
	case "login":
		return login(ctx, client, store, args)
	case "logout":
		return logout(ctx, client, store)
	case "me":
		return show(ctx, client, "/auth/me")
	case "products":
		return show(ctx, client, "/products")
	case "orders":
		return show(ctx, client, "/orders/dealer")
	case "notifications":
		return show(ctx, client, "/notifications")
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func login(ctx context.Context, client *apiclient.Client, store apiclient.SessionStore, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: erpcli login <email> <password>")
	}

	var result struct {
		Access  string          `json:"access"`
		Refresh string          `json:"refresh"`
		User    json.RawMessage `json:"user"`
	}
	if err := client.Post(ctx, "/auth/login", map[string]string{
		"email":    args[0],
		"password": args[1],
	}, &result); err != nil {
		return err
	}

	if err := store.SetSession(result.Access, result.Refresh, result.User); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func logout(ctx context.Context, client *apiclient.Client, store apiclient.SessionStore) error {
	// Best effort on the server side; the local session is cleared even if
	// the token was already revoked.
	_ = client.Post(ctx, "/auth/logout", nil, nil)
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func show(ctx context.Context, client *apiclient.Client, path string) error {
	var payload json.RawMessage
	if err := client.Get(ctx, path, nil, &payload); err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: erpcli <command>

commands:
  login <email> <password>   sign in and persist the session
  logout                     revoke the session
  me                         show the authenticated profile
  products                   list the product catalogue
  orders                     list dealer orders
  notifications              list notifications`)
}
