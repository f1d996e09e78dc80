package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"github.com/modelbind/jsbridge"
	"github.com/modelbind/jsbridge/config"
	"github.com/modelbind/jsbridge/loader"
	"github.com/modelbind/jsbridge/naming"
)

func main() {
	configPath := flag.String("config", "jsbridge.toml", "config file path")
	dotRe := flag.String("dot", "", "write the type reference graph as DOT code to stdout, restricted to qualified type names matching the given regexp (\".*\" for all), then exit")
	dump := flag.Bool("dump", false, "dump the loaded model to stdout, then exit")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Parse()

	log := &Logger{Writer: os.Stderr}
	if *quiet {
		log.MinLevel = ERROR
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if cErr, ok := err.(*config.Error); ok {
			log.Log(FATAL, "%v", cErr.String())
		}
		log.Log(FATAL, "open config: %v", err)
	}
	if cfg.Model == "" {
		log.Log(FATAL, "%v: no model file configured", *configPath)
	}
	if len(cfg.Outputs) == 0 && *dotRe == "" && !*dump {
		log.Log(FATAL, "%v: no outputs configured", *configPath)
	}

	conv, ok := naming.ByName(cfg.Generate.Convention)
	if !ok {
		log.Log(FATAL, "%v: unknown convention %q", *configPath, cfg.Generate.Convention)
	}

	timeStart := time.Now()

	model, err := loader.Load(cfg.Model)
	if err != nil {
		log.Log(FATAL, "load model: %v", err)
	}

	if *dump {
		spew.Dump(model)
		return
	}

	timeLoad := time.Since(timeStart)
	timeStart = time.Now()

	res, err := jsbridge.Generate(model, jsbridge.Options{
		Convention: conv,
		StateType:  cfg.Generate.StateType,
		EventType:  cfg.Generate.EventType,
	})
	if err != nil {
		log.Log(FATAL, "generate: %v", err)
	}
	for _, note := range res.Notes {
		log.Log(WARN, "%v", note)
	}

	if *dotRe != "" {
		re, err := regexp.Compile(*dotRe)
		if err != nil {
			log.Log(FATAL, "parse -dot regexp: %v", err)
		}
		os.Stdout.Write(res.Set.DebugDOTCode(re))
		return
	}

	timeGenerate := time.Since(timeStart)
	timeStart = time.Now()

	for _, out := range cfg.Outputs {
		var code string
		switch out.Profile {
		case "", "bare":
			code = res.Bare
		case "typed":
			code = res.Typed
		default:
			log.Log(FATAL, "%v: unknown output profile %q", *configPath, out.Profile)
		}
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				log.Log(FATAL, "%v", err)
			}
		}
		if err := os.WriteFile(out.Path, []byte(code), 0666); err != nil {
			log.Log(FATAL, "write output: %v", err)
		}
	}

	timeWrite := time.Since(timeStart)

	numByClass := make(map[string]int)
	for _, def := range res.Set.Defs {
		numByClass[def.Class().String()]++
	}

	fmt.Println()
	fmt.Printf("==Generation stats==\n")
	fmt.Printf("Generated converter pairs by type class:\n")
	{
		tbl := tablewriter.NewWriter(os.Stdout)
		tbl.SetHeader([]string{"Class", "Count"})
		classes := make([]string, 0, len(numByClass))
		for class := range numByClass {
			classes = append(classes, class)
		}
		slices.Sort(classes)
		for _, class := range classes {
			tbl.Append([]string{class, fmt.Sprintf("%v", numByClass[class])})
		}
		tbl.Append([]string{"==TOTAL==", fmt.Sprintf("%v", len(res.Set.Defs))})
		tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})
		tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tbl.SetCenterSeparator("|")
		tbl.Render()
	}
	fmt.Println()
	fmt.Printf("==Timing stats==\n")
	{
		tbl := tablewriter.NewWriter(os.Stdout)
		tbl.SetHeader([]string{"Task", "Time"})
		tbl.AppendBulk([][]string{
			{"Load model", timeLoad.String()},
			{"Resolve and emit", timeGenerate.String()},
			{"Write outputs", timeWrite.String()},
		})
		tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})
		tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tbl.SetCenterSeparator("|")
		tbl.Render()
	}

	fmt.Println()
	for _, out := range cfg.Outputs {
		fmt.Printf("Wrote %v\n", out.Path)
	}
}
