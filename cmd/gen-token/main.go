package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mockstack/mockstack/lib/logger"
	"github.com/mockstack/mockstack/lib/paths"
	"github.com/mockstack/mockstack/lib/store"
	"github.com/nrednav/cuid2"
)

// gen-token mints a token for a seeded user straight into the token
// collection, skipping the login round trip. Handy for curl sessions against
// a local server sharing the same data directory.
func main() {
	user := flag.String("user", "admin", "User name to mint the token for")
	dataDir := flag.String("data-dir", "", "Data directory (defaults to DATA_DIR, then /var/lib/mockstack)")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("DATA_DIR")
	}
	if dir == "" {
		dir = "/var/lib/mockstack"
	}

	log := logger.New(logger.Config{Level: "error", Format: "text"}, nil)
	st, err := store.Open(paths.New(dir), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}

	token := cuid2.Generate()
	err = st.Update(func(s *store.State) error {
		u, ok := s.Users[*user]
		if !ok {
			return fmt.Errorf("unknown user %q", *user)
		}
		s.Tokens[token] = u.Id
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error minting token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
