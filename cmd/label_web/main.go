// label_web serves the browser labeling front-end for one extraction run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/fedepasi/racetagger-training/session"
	"github.com/fedepasi/racetagger-training/store"
	"github.com/fedepasi/racetagger-training/web"
)

func main() {
	godotenv.Load()

	inputDir := flag.String("input", "", "Directory with extracted frames")
	port := flag.Int("port", 8080, "HTTP port")
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("Usage: label_web -input <dir> [-port 8080]")
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
	server := web.NewServer(sess, st.ScenesDir())

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Labeling %d scenes (%d to go)\n", len(meta.Scenes), sess.Remaining())
	log.Printf("Open http://localhost%s in your browser\n", addr)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
