package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/checker"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/driver"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/session"
)

func main() {
	args, err := cli()
	if err != nil {
		log.Fatal(err)
	}

	if !args.Command.usesConfig() {
		fmt.Print(HELP_COMMAND)
		return
	}

	cfg, err := setupConfig()
	if err != nil {
		log.Fatal(err)
	}
	if args.Command == COMMAND_ENV {
		cfg.Show(os.Stdout)
		return
	}

	bootstrap, err := loadBootstrap(cfg)
	if err != nil {
		log.Fatal(err)
	}
	opts := checker.Options{SpineCeiling: cfg.SpineCeiling}

	b, err := book.Load(args.BookPath)
	if err != nil {
		log.Fatal(err)
	}

	s := session.New()
	for _, path := range b.Files {
		if _, err := s.LoadFile(path); err != nil {
			// Keep the context indices aligned even without the source.
			if _, err := s.AddFile(path, ""); err != nil {
				log.Fatal(err)
			}
		}
	}

	switch args.Command {
	case COMMAND_GEN:
		code, err := checker.GenChecker(bootstrap, b, args.Entries, ident.NewCodec(), opts)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(code)
	case COMMAND_CHECK:
		c := checker.New(newEngine(cfg), bootstrap, opts)
		err := driver.TypeCheckBook(s, b, c, args.Entries)
		report(s, err)
		fmt.Println("All terms check.")
	case COMMAND_EVAL:
		c := checker.New(newEngine(cfg), bootstrap, opts)
		value, err := driver.EvalBook(s, b, c)
		report(s, err)
		fmt.Println(value)
	}
}

// report renders the collected diagnostics and exits when the pipeline
// failed.
func report(s *session.Session, err error) {
	n, renderErr := s.RenderAll(os.Stderr)
	if renderErr != nil {
		log.Fatal(renderErr)
	}
	if err == nil {
		return
	}
	if errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		fmt.Fprintf(os.Stderr, "%d error(s) found\n", n)
		os.Exit(1)
	}
	log.Fatal(err)
}
