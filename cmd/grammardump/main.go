// Copyright 2024 The Farkle-Go Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	grammar "github.com/farkle-go/grammar"
)

var (
	wantSymbols  bool
	wantProds    bool
	wantGroups   bool
	wantSpecial  bool
	wantAll      bool
	skipContent  bool
	concurrency  int
)

func prettyPrint(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %s>", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "\t"); err != nil {
		return string(b)
	}
	return buf.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

type symbolDump struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Flags uint32 `json:"flags"`
}

type productionDump struct {
	Row         int    `json:"row"`
	Head        uint32 `json:"head"`
	MemberCount int    `json:"memberCount"`
}

func dumpGrammar(path string) error {
	g, err := grammar.Load(path, &grammar.LoadOptions{SkipContentValidation: skipContent})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer g.Close()

	name, _ := g.Name()
	major, minor := g.Version()
	fmt.Printf("=== %s (%s v%d.%d) ===\n", path, name, major, minor)

	if wantSymbols || wantAll {
		n := g.TokenSymbolCount()
		symbols := make([]symbolDump, 0, n)
		for row := uint32(1); row <= n; row++ {
			info, err := g.TokenSymbol(grammar.TokenSymbolHandle(row))
			if err != nil {
				return fmt.Errorf("%s: token symbol %d: %w", path, row, err)
			}
			symbols = append(symbols, symbolDump{Row: int(row), Name: info.Name, Flags: uint32(info.Flags)})
		}
		fmt.Println(prettyPrint(symbols))
	}

	if wantProds || wantAll {
		n := g.ProductionCount()
		prods := make([]productionDump, 0, n)
		for row := uint32(1); row <= n; row++ {
			info, err := g.Production(grammar.ProductionHandle(row))
			if err != nil {
				return fmt.Errorf("%s: production %d: %w", path, row, err)
			}
			prods = append(prods, productionDump{Row: int(row), Head: uint32(info.Head), MemberCount: len(info.Members)})
		}
		fmt.Println(prettyPrint(prods))
	}

	if wantGroups || wantAll {
		n := g.GroupCount()
		groups := make([]grammar.GroupInfo, 0, n)
		for row := uint32(1); row <= n; row++ {
			info, err := g.Group(grammar.GroupHandle(row))
			if err != nil {
				return fmt.Errorf("%s: group %d: %w", path, row, err)
			}
			groups = append(groups, info)
		}
		fmt.Println(prettyPrint(groups))
	}

	if wantSpecial || wantAll {
		names, err := g.SpecialNames()
		if err != nil {
			return fmt.Errorf("%s: special names: %w", path, err)
		}
		fmt.Println(prettyPrint(names))
	}

	return nil
}

func collectFiles(root string) ([]string, error) {
	if !isDirectory(root) {
		return []string{root}, nil
	}
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func runDump(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args[0])
	if err != nil {
		return err
	}

	jobs := make(chan string)
	g := new(errgroup.Group)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for path := range jobs {
				if err := dumpGrammar(path); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
			return nil
		})
	}
	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	return g.Wait()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "grammardump",
		Short: "Inspects compiled grammar container files",
		Long:  "grammardump loads one or more grammar table-stream containers and prints their contents as JSON.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("grammardump version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [file or directory]",
		Short: "Dumps grammar container contents",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpCmd.Flags().BoolVar(&wantSymbols, "symbols", false, "dump the token symbol table")
	dumpCmd.Flags().BoolVar(&wantProds, "productions", false, "dump the production table")
	dumpCmd.Flags().BoolVar(&wantGroups, "groups", false, "dump the group table")
	dumpCmd.Flags().BoolVar(&wantSpecial, "special-names", false, "dump the special name table")
	dumpCmd.Flags().BoolVar(&wantAll, "all", false, "dump everything")
	dumpCmd.Flags().BoolVar(&skipContent, "skip-content-validation", false, "load with content validation disabled")
	dumpCmd.Flags().IntVar(&concurrency, "jobs", 4, "number of grammars to load concurrently")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
