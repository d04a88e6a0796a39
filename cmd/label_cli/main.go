// label_cli is the terminal labeling front-end: a prompt loop that walks
// unlabeled scenes and translates keystrokes into session commands.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/models"
	"github.com/fedepasi/racetagger-training/scene"
	"github.com/fedepasi/racetagger-training/session"
	"github.com/fedepasi/racetagger-training/store"
)

func main() {
	inputDir := flag.String("input", "", "Directory with extracted frames")
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("Usage: label_cli -input <dir>")
	}

	st := store.New(*inputDir)
	meta, err := st.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Fatalf("ERROR: no metadata found in %s. Run extract_frames first.", *inputDir)
		}
		log.Fatalf("ERROR: %v", err)
	}

	sess := session.New(meta, st.Save)
	cfg := meta.Config

	fmt.Println("\nINTERACTIVE SCENE LABELING")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Project: %s\n", cfg.ProjectName)
	fmt.Printf("Scenes: %d total, %d to label\n", len(meta.Scenes), sess.Remaining())
	fmt.Println("\nCommands:")
	fmt.Println("  [key]  assign label (e.g. 1)")
	fmt.Println("  s      skip scene")
	fmt.Println("  d      delete scene (tombstone)")
	fmt.Println("  v      view representative frame")
	fmt.Println("  p / n  previous / next scene")
	fmt.Println("  l      list labels")
	fmt.Println("  g      list groups")
	fmt.Println("  q      save and quit")
	fmt.Println("  ?      help")

	scanner := bufio.NewScanner(os.Stdin)
	scenesDir := st.ScenesDir()

	for {
		current, ok := sess.Current()
		if !ok {
			if sess.Complete() {
				fmt.Println("\nAll scenes labeled or deleted. Use p/n to review, q to quit.")
			} else {
				fmt.Println("\nEnd of list. Use p to go back, q to quit.")
			}
		} else {
			printScene(meta, current)
		}

		fmt.Print("\n  Label (or command): ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "q":
			if err := sess.Close(); err != nil {
				log.Fatalf("ERROR: failed to save: %v", err)
			}
			fmt.Printf("\nSaved. %d scenes still unlabeled.\n", sess.Remaining())
			return
		case "s":
			sess.Skip()
			continue
		case "p":
			sess.Prev()
			continue
		case "n":
			sess.Next()
			continue
		case "d":
			if err := sess.Delete(); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			fmt.Println("  Deleted (tombstoned)")
			continue
		case "v":
			if ok {
				preview(filepath.Join(scenesDir, scene.RepresentativeFilename(current.SceneID)))
			}
			continue
		case "l":
			listLabels(cfg.Labels)
			continue
		case "g":
			listGroups(cfg)
			continue
		case "?":
			fmt.Println("  Enter a label key (1, 2, ...), a label name, or a custom label.")
			fmt.Printf("  Group shortcuts: %v\n", shortcutKeys(cfg.Shortcuts))
			continue
		}

		if !ok {
			fmt.Println("  No scene under cursor.")
			continue
		}

		// Group shortcut: show the group's labels, then ask for the sub-key.
		if keys, isShortcut := cfg.Shortcut(input); isShortcut {
			names := make([]string, 0, len(keys))
			for _, k := range keys {
				if name, found := cfg.Lookup(k); found {
					names = append(names, fmt.Sprintf("%s=%s", k, name))
				}
			}
			fmt.Printf("  Group: %s\n", strings.Join(names, ", "))
			fmt.Print("  Which? ")
			if !scanner.Scan() {
				break
			}
			sub := strings.TrimSpace(scanner.Text())
			label, err := sess.Assign(sub)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			fmt.Printf("  Label: %s\n", label)
			continue
		}

		// Direct key or canonical label name.
		if label, err := sess.Assign(input); err == nil {
			fmt.Printf("  Label: %s\n", label)
			continue
		}

		// Anything else becomes a custom label after confirmation.
		fmt.Printf("  Custom label %q? (y/n): ", strings.ToUpper(input))
		if !scanner.Scan() {
			break
		}
		if strings.ToLower(strings.TrimSpace(scanner.Text())) == "y" {
			if err := sess.AssignCustom(input); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			fmt.Printf("  Label: %s\n", strings.ToUpper(input))
		}
	}

	if err := sess.Close(); err != nil {
		log.Fatalf("ERROR: failed to save: %v", err)
	}
}

func printScene(meta *store.Metadata, sc models.SceneInfo) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 50))
	fmt.Printf("Scene %d/%d\n", sc.SceneID, len(meta.Scenes)-1)
	fmt.Printf("  Frames: %d | Duration: %.1fs\n", sc.FrameCount, sc.DurationSec())
	fmt.Printf("  Representative: %s\n", sc.RepresentativeFrame)
	if sc.Label != "" {
		fmt.Printf("  Current label: %s\n", sc.Label)
	}
	if meta.IsDeleted(sc.SceneID) {
		fmt.Println("  (deleted)")
	}
}

func listLabels(lbls map[string]string) {
	keys := make([]string, 0, len(lbls))
	for key := range lbls {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Println("\n  Available labels:")
	for _, key := range keys {
		fmt.Printf("    %3s -> %s\n", key, lbls[key])
	}
}

func listGroups(cfg labels.Config) {
	if len(cfg.Groups) == 0 {
		fmt.Println("\n  No groups defined.")
		return
	}
	keys := make([]string, 0, len(cfg.Groups))
	for key := range cfg.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Println("\n  Groups:")
	for _, key := range keys {
		group := cfg.Groups[key]
		fmt.Printf("    %s (%s): keys %v\n", group.Name, key, group.Labels)
	}
}

func shortcutKeys(shortcuts map[string][]string) []string {
	keys := make([]string, 0, len(shortcuts))
	for key := range shortcuts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// preview opens the image in the platform viewer; pure side effect.
func preview(path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("  Frame not found: %s\n", path)
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		fmt.Printf("  Could not open viewer: %v\n", err)
		return
	}
	fmt.Printf("  Opened: %s\n", path)
}
