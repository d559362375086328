package noprintcheck

import (
	"fmt"
	"os"
)

func report(v int) string {
	fmt.Println("value", v)       // want "fmt.Println writes to stdout, use the logger instead"
	fmt.Printf("value %d\n", v)   // want "fmt.Printf writes to stdout, use the logger instead"
	println("debug")              // want "builtin println call, use the logger instead"
	fmt.Fprintln(os.Stderr, "ok")
	return fmt.Sprintf("%d", v)
}
