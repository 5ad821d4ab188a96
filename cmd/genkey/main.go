package main

import (
	"crypto/rand"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/liondandelion/magma/internal/gost89"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalln("Specify filepath for the key")
	}
	key := make([]byte, gost89.KeySize)
	if _, err := rand.Read(key); err != nil {
		log.Fatal(err)
	}
	err := os.WriteFile(os.Args[1], key, 0600)
	if err != nil {
		log.Fatal(err)
	}
}
