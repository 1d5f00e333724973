package ident

import "github.com/kind-lang/kindhvm/internal/span"

var zeroRange = span.Range{}
