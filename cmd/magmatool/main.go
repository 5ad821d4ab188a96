package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/liondandelion/magma/internal/fileutil"
	"github.com/liondandelion/magma/internal/gost89"
	"github.com/liondandelion/magma/internal/hamming"
	"github.com/liondandelion/magma/internal/keymat"
	"github.com/liondandelion/magma/internal/logging"
)

const usage = `Usage: magmatool <command> [arguments]

Commands:
  keymat [dir|file.EFE ...]       decode key material files (default: *.EFE in .)
  hamming <bits>                  build the Hamming matrix for a bit string, e.g. 1011
  copy [src dst]                  copy src into a new dst, or stdin to stdout
  stat <path>                     describe a file
  encrypt -key file [-in f] [-out f]
  decrypt -key file [-in f] [-out f]
`

func main() {
	if err := logging.Setup(os.Stderr, "info"); err != nil {
		log.Fatal(err)
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "keymat":
		err = runKeyMat(os.Stdout, args)
	case "hamming":
		err = runHamming(os.Stdout, args)
	case "copy":
		err = fileutil.CopyFiles(args, os.Stdin, os.Stdout)
	case "stat":
		err = runStat(os.Stdout, args)
	case "encrypt":
		err = runCipher(gost89.Encryption, args)
	case "decrypt":
		err = runCipher(gost89.Decryption, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func runKeyMat(w io.Writer, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			return err
		}
		if !st.IsDir() {
			paths = append(paths, a)
			continue
		}
		found, err := keymat.Glob(a)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.Errorf("no %s files found", keymat.Extension)
	}

	for _, p := range paths {
		m, err := keymat.ReadFile(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", p)
		if _, err := m.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func runHamming(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("expected one bit string")
	}

	bits := make([]uint8, 0, len(args[0]))
	for i, c := range args[0] {
		switch c {
		case '0', '1':
			bits = append(bits, uint8(c-'0'))
		default:
			return errors.Wrapf(hamming.ErrNotBit, "position %d is %q", i, c)
		}
	}

	code, err := hamming.Encode(bits)
	if err != nil {
		return err
	}
	for _, row := range code.Matrix {
		fmt.Fprintln(w, bitString(row))
	}
	fmt.Fprintf(w, "word: %s\n", bitString(code.Word))
	return nil
}

func bitString(bits []uint8) string {
	var sb strings.Builder
	for _, b := range bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

func runStat(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("expected one path")
	}
	info, err := fileutil.Describe(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name:     %s\n", info.Name)
	fmt.Fprintf(w, "Size:     %s (%d bytes)\n", humanize.IBytes(uint64(info.Size)), info.Size)
	fmt.Fprintf(w, "Mode:     %v\n", info.Mode)
	fmt.Fprintf(w, "Modified: %s (%s)\n", info.ModTime.Format("2006-01-02 15:04:05"), humanize.Time(info.ModTime))
	if info.IsDir {
		fmt.Fprintf(w, "Type:     directory\n")
	} else {
		fmt.Fprintf(w, "Type:     %s\n", info.MIME)
	}
	return nil
}

func runCipher(dir gost89.Direction, args []string) error {
	fs := flag.NewFlagSet(dir.String(), flag.ContinueOnError)
	keyFile := fs.String("key", "", "32-byte key file (see genkey)")
	in := fs.String("in", "", "input file, stdin if empty")
	out := fs.String("out", "", "output file, stdout if empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keyFile == "" {
		return errors.New("-key is required")
	}

	key, err := os.ReadFile(*keyFile)
	if err != nil {
		return err
	}
	block, err := gost89.NewCipher(key, nil)
	if err != nil {
		return err
	}

	var src []byte
	if *in == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(*in)
	}
	if err != nil {
		return err
	}

	dst := make([]byte, len(src))
	if dir == gost89.Encryption {
		err = gost89.EncryptBlocks(context.Background(), block, dst, src)
	} else {
		err = gost89.DecryptBlocks(context.Background(), block, dst, src)
	}
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(dst)
		return err
	}
	return os.WriteFile(*out, dst, 0600)
}
