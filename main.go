package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/libdriver/mifare-classic/classic"
	"github.com/libdriver/mifare-classic/pcsc"
	"github.com/libdriver/mifare-classic/samples"
)

func main() {
	reader, err := pcsc.NewReader()
	if err != nil {
		fmt.Printf("[ERROR] Failed to create reader: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	readers, err := reader.ListReaders()
	if err != nil {
		fmt.Printf("[ERROR] Failed to list readers: %v\n", err)
		os.Exit(1)
	}
	if len(readers) == 0 {
		fmt.Println("[ERROR] No readers detected")
		os.Exit(1)
	}
	fmt.Println("[OK] Available readers:")
	for i, r := range readers {
		fmt.Printf("     %d: %s\n", i, r)
	}
	reader.UseReader(readers[0])

	fmt.Println("[OK] Waiting for card...")
	if err := reader.WaitForCard(30 * time.Second); err != nil {
		fmt.Printf("[ERROR] Failed to wait for card: %v\n", err)
		os.Exit(1)
	}

	port := pcsc.NewPort(reader)
	h := classic.New(port)

	ctx := context.Background()
	if err := h.Init(ctx); err != nil {
		fmt.Printf("[ERROR] Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer h.Deinit(ctx)

	if err := samples.ClassicSample(ctx, h); err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
