package main

import (
	"os"
	exit "syscall"
)

type server struct{}

func (server) main() {
	os.Exit(3)
}

func helper() {
	os.Exit(2)
}

func main() {
	helper()
	server{}.main()
	defer func() {
		exit.Exit(4) // want "syscall.Exit in main.main skips deferred cleanup, return an error from run instead"
	}()
	os.Exit(1) // want "os.Exit in main.main skips deferred cleanup, return an error from run instead"
}
