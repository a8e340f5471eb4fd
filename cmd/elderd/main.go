package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	elder "github.com/rphilander/elderlisp/core"
	"github.com/rphilander/elderlisp/store"
)

func main() {
	sockPath := os.Getenv("ELDER_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/elder.sock"
	}

	opts := elder.SessionOptions{}
	var st *store.Store
	if dbPath := os.Getenv("ELDER_DB"); dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			log.Fatalf("open form log: %v", err)
		}
		opts.Log = st
	}
	if os.Getenv("ELDER_DEBUG") != "" {
		opts.Logger = log.New(os.Stderr, "eval: ", log.LstdFlags)
	}

	session, err := elder.NewSession(opts)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}

	srv, err := elder.NewServer(session, sockPath)
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("shutting down...")
		srv.Shutdown()
	}()

	log.Printf("elder listening on %s", sockPath)
	srv.Run()
	if st != nil {
		st.Close()
	}
	os.Remove(sockPath)
}
