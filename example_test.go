package strata_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/strata"
)

// Example_basic demonstrates checkpointing a workspace, editing a file,
// and inspecting the difference.
func Example_basic() {
	// Create temporary directories for the example
	workspace, err := os.MkdirTemp("", "strata-workspace-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(workspace)

	storage, err := os.MkdirTemp("", "strata-storage-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(storage)

	ctx := context.TODO()

	// Open a tracker for this workspace on the "demo" task lane.
	// The snapshot store lives under the storage root, never inside
	// the workspace.
	tracker, err := strata.New(ctx, workspace, "demo", strata.WithStorageRoot(storage))
	if err != nil {
		log.Fatal(err)
	}

	// 1. Write a file and record a checkpoint
	path := filepath.Join(workspace, "notes.txt")
	if err := os.WriteFile(path, []byte("draft"), 0644); err != nil {
		log.Fatal(err)
	}
	checkpoint := tracker.Commit(ctx, "first draft")

	// 2. Edit the file
	if err := os.WriteFile(path, []byte("final"), 0644); err != nil {
		log.Fatal(err)
	}

	// 3. Diff the checkpoint against the live tree
	entries, err := tracker.Diff(ctx, checkpoint, "")
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		fmt.Printf("%s: %q -> %q\n", e.RelPath, e.Before, e.After)
	}

	// 4. Roll the workspace back
	if err := tracker.Reset(ctx, checkpoint); err != nil {
		log.Fatal(err)
	}
	restored, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("restored: %s\n", restored)

	// Output:
	// notes.txt: "draft" -> "final"
	// restored: draft
}
