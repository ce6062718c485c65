// speculate compiles nested describe/context/it specs into Go tests.
//
// A spec file holds Go declarations interleaved with test groups:
//
//	import "strings"
//
//	describe "strings" {
//	    before {
//	        s := "speculate"
//	    }
//
//	    it has_prefix {
//	        if !strings.HasPrefix(s, "spec") {
//	            t.Fatal("missing prefix")
//	        }
//	    }
//	}
//
// Usage:
//
//	speculate gen math.spec           # writes math_spec_test.go
//	speculate parse math.spec         # JSON AST
//	speculate list math.spec          # test paths
//	speculate check *.spec            # parse only
//
// Run from go:generate, the package name defaults to $GOPACKAGE.
package main

func main() {
	Execute()
}
