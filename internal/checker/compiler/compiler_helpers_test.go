package compiler

import (
	"fmt"

	"github.com/kind-lang/kindhvm/internal/ident"
)

func idOf(name string) string {
	return fmt.Sprint(ident.Hash(name))
}
