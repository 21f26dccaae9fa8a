package main

import (
	"flag"
	"fmt"
	"os"

	"finn-mini/pkg/auth"
	"finn-mini/pkg/config"
)

// token prints a bearer token for the /chat endpoint.
func main() {
	client := flag.String("client", "finn-ui", "client id to embed in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.SecretKey == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is not set; /chat does not require a token")
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	token, err := jwtManager.GenerateToken(*client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	// stdout carries only the token so it can be captured by scripts
	fmt.Fprintf(os.Stderr, "Token for %q expires in %s\n", *client, jwtManager.GetTokenDuration())
	fmt.Println(token)
}
