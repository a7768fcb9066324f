package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sentry-server/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "dump":
		if err := dump(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := list(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
			os.Exit(1)
		}
	default:
		printHelp()
	}
}

// dump печатает сейв как JSON
func dump(path string) error {
	session, err := (&storage.SaveService{}).Load(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(session)
}

// list печатает сейвы в папке: время, сид, число вышек
func list(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.snty"))
	if err != nil {
		return err
	}
	sort.Strings(paths)

	svc := &storage.SaveService{SaveDir: dir}
	for _, p := range paths {
		session, err := svc.Load(p)
		if err != nil {
			fmt.Printf("%s\tbroken: %v\n", filepath.Base(p), err)
			continue
		}
		fmt.Printf("%s\t%s\tseed=%d\ttowers=%d\n",
			filepath.Base(p),
			time.Unix(session.Timestamp, 0).UTC().Format(time.RFC3339),
			session.Seed,
			len(session.Towers),
		)
	}
	return nil
}

func printHelp() {
	fmt.Println(`Save Inspector - просмотр сейвов вышек (.snty)
Commands:
  dump <file>            - вывести сейв в JSON
  list <dir>             - список сейвов: время, сид, количество вышек`)
}
