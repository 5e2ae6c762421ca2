package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/postline/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   document store backend ("mongo", "postgres", "memory")
//	-d string   store DSN (Mongo URI or PostgreSQL DSN)
//	-n string   Mongo database name
//	-s string   session token HMAC secret key
//	-t int      session token validity, minutes
//	-u string   S3 user
//	-p string   S3 password
//	-o string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-n", "-s", "-t", "-u", "-p", "-o", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "document store backend")
	fs.StringVar(&config.StoreDSN, "d", config.StoreDSN, "document store DSN")
	fs.StringVar(&config.StoreDatabase, "n", config.StoreDatabase, "document store database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidity.Minutes()), "session_token_validity (in minutes)")

	fs.StringVar(&config.S3User, "u", config.S3User, "S3 user")
	fs.StringVar(&config.S3Password, "p", config.S3Password, "S3 password")
	fs.StringVar(&config.S3Bucket, "o", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidity = time.Duration(*sessionTokenValidity) * time.Minute
}
