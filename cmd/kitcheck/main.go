// Command kitcheck loads an environment, validates its kits and patterns,
// and dry-mounts it against a headless canvas and a real collision space.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/milk9111/bullets/bullets"
	"github.com/milk9111/bullets/bullets/physics"
	"github.com/milk9111/bullets/bullets/render"
	"github.com/milk9111/bullets/pattern"
	"github.com/milk9111/bullets/prefabs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("kitcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envName := fs.String("env", "stage1.yaml", "environment file under prefabs/")
	maxShapes := fs.Int("max-shapes", 0, "collision shape budget, 0 for unlimited")
	verbose := fs.Bool("v", false, "log mount details")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	stage, err := prefabs.LoadEnvironment(*envName, prefabs.AssetBounds)
	if err != nil {
		fmt.Fprintf(stderr, "kitcheck: %v\n", err)
		return 1
	}
	env := stage.Environment

	failed := false
	for _, e := range env.Entries {
		if err := e.Kit.Validate(); err != nil {
			fmt.Fprintf(stderr, "kitcheck: %v\n", err)
			failed = true
		}
	}
	for _, p := range stage.Patterns {
		if env.Kit(p.Kit) == nil {
			fmt.Fprintf(stderr, "kitcheck: pattern %s: unknown kit %q\n", p.Name, p.Kit)
			failed = true
		}
		if _, err := pattern.Load(p.Script); err != nil {
			fmt.Fprintf(stderr, "kitcheck: pattern %s: %v\n", p.Name, err)
			failed = true
		}
	}

	server := physics.NewServer(nil, *maxShapes)
	m := bullets.NewManager(render.NewCanvas(), server, bullets.WithLogger(logger))
	if err := m.Mount(env); err != nil {
		fmt.Fprintf(stderr, "kitcheck: %v\n", err)
		return 1
	}
	defer m.Unmount()

	fmt.Fprintf(stdout, "environment %s (%s)\n", env.Name, env.ID)
	writeTable(stdout, m)
	fmt.Fprintf(stdout, "%d sets, %d domains, %d bullets\n", len(m.Sets()), server.Domains(), m.TotalBullets())

	if failed {
		return 1
	}
	return 0
}

func writeTable(w io.Writer, m *bullets.Manager) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tLAYER\tMASK\tDOMAIN\tKIT\tKIND\tSIZE\tSHAPES\tZ")
	for _, set := range m.Sets() {
		key := set.Key()
		for _, p := range set.Pools() {
			start := p.StartingShape()
			shapes := "-"
			if p.Size() > 0 {
				shapes = fmt.Sprintf("%d-%d", start, start+int32(p.Size())-1)
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\t%d\t%s\t%d\n",
				set.Index(), uint32(key), uint32(key>>32), set.Domain(),
				p.Kit().Name, p.Kit().Kind, p.Size(), shapes, p.ZIndex())
		}
	}
	_ = tw.Flush()
}
