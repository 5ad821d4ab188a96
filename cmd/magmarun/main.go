package main

import (
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/liondandelion/magma/internal/gost89"
)

func main() {

	// Reference round keys and the blocks they were checked against.
	var testKeys = []uint32{0xFFFFFFFF, 0x12345678, 0x00120477, 0x77AE441F, 0x81C63123, 0x99DEEEEE, 0x09502978, 0x68FA3105}
	var testPT = []uint64{0xFE12847EFE12847E, 0xB202DA8A5342F0AC, 0, 0xFFFFFFFFFFFFFFFF}
	var referenceCT = []uint64{0x35C2E8BBBB7F1BBA, 0x864C1CF472EBA094, 0x55A2E4EE5E6335CC, 0xB24FCA5A0EDD4606}
	// Same keys, one bit changed in the last one.
	var testKeys1 = []uint32{0xFFFFFFFF, 0x12345678, 0x00120477, 0x77AE441F, 0x81C63123, 0x99DEEEEE, 0x09502978, 0x68FA3104}
	// Same keys as a 32-byte cipher.Block key.
	var testK = []byte{0xff, 0xff, 0xff, 0xff, 0x12, 0x34, 0x56, 0x78, 0x00, 0x12, 0x04, 0x77, 0x77, 0xae, 0x44, 0x1f,
		0x81, 0xc6, 0x31, 0x23, 0x99, 0xde, 0xee, 0xee, 0x09, 0x50, 0x29, 0x78, 0x68, 0xfa, 0x31, 0x05}

	var CounterIV = []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}
	var CounterModeExamplePT = "The hunter will softly and suddenly vanish away, and never be met with again."

	c := gost89.NewWithSBox(&gost89.DefaultSBox)

	fmt.Printf("\nGOST 28147-89 test\n\n")
	fmt.Printf("| Round keys:\n| %08X\n| S-box:\n| %X\n\n", testKeys, gost89.DefaultSBox)
	fmt.Printf("---\n\n(1) Reference vectors\n")

	for i, pt := range testPT {
		ct, err := c.Encrypt(pt, testKeys)
		if err != nil {
			log.Fatalf("Encrypt failed: %v", err)
		}
		fmt.Printf("(1.%d) %016X -> %016X - ", i+1, pt, ct)
		if ct != referenceCT[i] {
			fmt.Printf("FAILED! [Not equal to reference cipher text %016X!]\n", referenceCT[i])
		} else {
			fmt.Printf("OK\n")
		}

		pt2, err := c.Decrypt(ct, testKeys)
		if err != nil {
			log.Fatalf("Decrypt failed: %v", err)
		}
		fmt.Printf("      decrypted: %016X - ", pt2)
		if pt2 != pt {
			fmt.Printf("FAILED! [PT != D(E(PT,K),K)]\n")
		} else {
			fmt.Printf("OK\n")
		}
	}

	fmt.Printf("---\n\n(1a) Incorrect key test\n")
	pt1, _ := c.Decrypt(referenceCT[0], testKeys1)
	fmt.Printf("(1a.1) Plain text decrypted (keys_1):\t%016X - ", pt1)
	if pt1 != testPT[0] {
		fmt.Printf("OK (different plain text)\n")
	} else {
		fmt.Printf("FAILED!\n")
	}

	fmt.Printf("\n\n(2) cipher.Block interface\n\n")

	block, err := gost89.NewCipher(testK, nil)
	if err != nil {
		log.Fatalf("NewCipher failed: %v", err)
	}

	src := []byte{0xfe, 0x12, 0x84, 0x7e, 0xfe, 0x12, 0x84, 0x7e}
	dst := make([]byte, gost89.BlockSize)
	block.Encrypt(dst, src)
	fmt.Printf("(2.1) Cipher text:\t%X - ", dst)
	if fmt.Sprintf("%016X", referenceCT[0]) != fmt.Sprintf("%X", dst) {
		fmt.Printf("FAILED!\n")
	} else {
		fmt.Printf("OK\n")
	}

	fmt.Printf("\n\n(3) Counter mode (crypto/cipher CTR over the block adapter)\n\n")

	CMCipherText := make([]byte, len(CounterModeExamplePT))
	cipher.NewCTR(block, CounterIV).XORKeyStream(CMCipherText, []byte(CounterModeExamplePT))
	CMPlainText := make([]byte, len(CMCipherText))
	cipher.NewCTR(block, CounterIV).XORKeyStream(CMPlainText, CMCipherText)

	fmt.Printf("Source PT:\n\t%s\nEncrypted:\n\t%0X\nDecrypted:\n\t%s\n", CounterModeExamplePT, CMCipherText, CMPlainText)
	fmt.Printf("\n(3.1) Counter mode test - ")
	if !bytes.Equal(CMPlainText, []byte(CounterModeExamplePT)) {
		fmt.Printf("FAILED! [Not equal to source plain text!]\n")
	} else {
		fmt.Printf("OK\n")
	}

	fmt.Printf("\n---\n\nMeasuring speed.\nSimple block operations (Encrypt()/Decrypt()):\n")

	PRNG := rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	var randPT [16]uint64
	for i := range randPT {
		randPT[i] = PRNG.Uint64()
	}

	var ct uint64
	measureStart := time.Now()
	counter := 0
	for i := 0; i < 200000; i++ {
		for t := range randPT {
			ct, _ = c.Encrypt(randPT[t], testKeys)
			counter++
		}
	}
	report("Encryption", counter*gost89.BlockSize, time.Since(measureStart))
	fmt.Printf(" Block: %016X\n\n", ct)

	measureStart = time.Now()
	counter = 0
	for i := 0; i < 200000; i++ {
		for t := range randPT {
			ct, _ = c.Decrypt(randPT[t], testKeys)
			counter++
		}
	}
	report("Decryption", counter*gost89.BlockSize, time.Since(measureStart))
	fmt.Printf(" Block: %016X\n\n", ct)

	fmt.Printf("Independent blocks (EncryptBlocks()/DecryptBlocks()):\n")
	LongBuffer := make([]byte, 1<<20)
	LongResult := make([]byte, len(LongBuffer))
	PRNG.Read(LongBuffer)

	ctx := context.Background()
	measureStart = time.Now()
	for i := 0; i < 10; i++ {
		if err := gost89.EncryptBlocks(ctx, block, LongResult, LongBuffer); err != nil {
			log.Fatalf("EncryptBlocks failed: %v", err)
		}
		if err := gost89.DecryptBlocks(ctx, block, LongResult, LongResult); err != nil {
			log.Fatalf("DecryptBlocks failed: %v", err)
		}
		if !bytes.Equal(LongBuffer, LongResult) {
			fmt.Printf("Failed: decrypted cipher text is not equal to source plain text!\n")
		}
	}
	report("10 encrypt/decrypt operations on 1M buffer", 20*len(LongBuffer), time.Since(measureStart))

	fmt.Printf("\nDone!\n\n")
}

func report(what string, n int, elapsed time.Duration) {
	fmt.Printf(" %s - %d bytes, time: %s", what, n, elapsed)
	if sec := elapsed.Seconds(); sec > 0 {
		fmt.Printf(" (~%.1f MB/sec)\n", float64(n)/sec/1048576)
	} else {
		fmt.Printf("\n")
	}
}
