// Package samples holds scripted sample sessions demonstrating the
// classic driver end to end, in the same spirit as the teacher's
// samples package (one file per card family, one exported entry point
// each).
package samples

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/libdriver/mifare-classic/classic"
)

// ClassicSample runs a scripted search -> read -> write -> value ops ->
// permission session against h, logging progress the way the teacher's
// main.go narrates its own PC/SC session.
func ClassicSample(ctx context.Context, h *classic.Handle) error {
	fmt.Println("[OK] Searching for a card...")
	cardType, uid, err := h.Search(ctx, classic.Ticks(20))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	fmt.Printf("[OK] Found %s card, uid=%s\n", cardType, hex.EncodeToString(uid[:]))

	blockNum := byte(4)
	name, key, err := h.TryDefaultKeys(ctx, uid, blockNum)
	if err != nil {
		return fmt.Errorf("no default key authenticated block %d: %w", blockNum, err)
	}
	fmt.Printf("[OK] Default key found: %s\n", name)

	fmt.Printf("[OK] Reading block %d...\n", blockNum)
	data, err := h.Read(ctx, blockNum, key.Kind, key.Value)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	fmt.Printf("[OK] Block %d data: %s\n", blockNum, hex.EncodeToString(data[:]))

	var newData [16]byte
	copy(newData[:], "1c00901100b0020A")
	fmt.Printf("[OK] Writing to block %d...\n", blockNum)
	if err := h.Write(ctx, blockNum, key.Kind, key.Value, newData); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	fmt.Println("[OK] Write successful!")

	verify, err := h.Read(ctx, blockNum, key.Kind, key.Value)
	if err != nil {
		return fmt.Errorf("verify read failed: %w", err)
	}
	fmt.Printf("[OK] Verified data: %s\n", hex.EncodeToString(verify[:]))

	valueBlock := byte(5)
	fmt.Printf("[OK] Initializing value block %d to 0 (addr 5)...\n", valueBlock)
	if err := h.ValueInit(ctx, valueBlock, key.Kind, key.Value, 0, 5); err != nil {
		return fmt.Errorf("value init failed: %w", err)
	}
	for i := 0; i < 3; i++ {
		if err := h.ValueIncrement(ctx, valueBlock, key.Kind, key.Value, 6); err != nil {
			return fmt.Errorf("value increment failed: %w", err)
		}
	}
	v, addr, err := h.ValueRead(ctx, valueBlock, key.Kind, key.Value)
	if err != nil {
		return fmt.Errorf("value read failed: %w", err)
	}
	fmt.Printf("[OK] Value block %d now holds %d (addr %d)\n", valueBlock, v, addr)

	if err := h.ValueRestore(ctx, valueBlock, key.Kind, key.Value); err != nil {
		return fmt.Errorf("value restore failed: %w", err)
	}
	fmt.Printf("[OK] Value block %d restored\n", valueBlock)

	perm := classic.AccessBits{Group0: 0, Group1: 0, Group2: 0, Trailer: 1, UserData: 0x69}
	sector := classic.BlockToSector(blockNum)
	fmt.Printf("[OK] Setting sector %d permissions...\n", sector)
	if err := h.SetSectorPermission(ctx, sector, key.Kind, key.Value, key.Value, perm, key.Value); err != nil {
		log.Printf("[ERROR] set permission failed: %v\n", err)
	} else if got, err := h.GetSectorPermission(ctx, sector, key.Kind, key.Value); err == nil {
		fmt.Printf("[OK] Sector %d permissions round-tripped: %+v\n", sector, got)
	}

	fmt.Println("[OK] Halting card.")
	return h.Halt(ctx)
}
