// ghosttool is a CLI utility for inspecting orientation tables and snapping.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ghostbrush/internal/catalog"
	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/placement"
	"github.com/Faultbox/ghostbrush/internal/snap"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

var (
	header = color.New(color.FgCyan, color.Bold)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	dim    = color.New(color.Faint)
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "modes":
		cmdModes(args)
	case "table", "t":
		cmdTable(args)
	case "snap":
		cmdSnap(args)
	case "delta":
		cmdDelta(args)
	case "angles":
		cmdAngles(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ghosttool - ghost placement inspection utility

Usage:
  ghosttool <command> [options]

Commands:
  modes <catalog.yaml>                    Show the rotation mode of every object
  table <catalog.yaml> <code> [subtype]   Print an object's orientation table
  snap <face> <u> <v> [flag...]           Resolve edge snapping for a face hit
  delta <from> <to>                       Shortest rotation delta in degrees
  angles <granularity>                    List the angles of a granularity

Faces are +x, -x, +y, -y, +z or -z. u and v are the hit point on the face
in [0,1], along the face's horizontal and vertical axes. Flags are
horizontal, vertical, facenormal or none (default: horizontal vertical).

Examples:
  ghosttool modes configs/catalog.yaml
  ghosttool table configs/catalog.yaml game:crate wood
  ghosttool snap +y 0.5 0.95
  ghosttool delta 350 10
  ghosttool angles 22.5degnot45deg`)
}

func fail(format string, args ...any) {
	bad.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadCatalog(path string) (*catalog.Catalog, *orient.Resolver) {
	cat, err := catalog.Load(path, nil)
	if err != nil {
		fail("%v", err)
	}
	return cat, orient.NewResolver(cat, cat, nil)
}

func cmdModes(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ghosttool modes <catalog.yaml>")
		os.Exit(1)
	}
	cat, r := loadCatalog(args[0])

	header.Printf("%-5s %-32s %s\n", "ID", "CODE", "MODE")
	for _, obj := range cat.Objects() {
		mode := r.Mode(obj.ID)
		c := good
		if mode == orient.ModeNone {
			c = dim
		}
		fmt.Printf("%-5d %-32s ", obj.ID, obj.Code)
		c.Println(mode)
	}
}

func cmdTable(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ghosttool table <catalog.yaml> <code> [subtype]")
		os.Exit(1)
	}
	cat, r := loadCatalog(args[0])
	obj, ok := cat.Lookup(args[1])
	if !ok {
		fail("unknown object %s", args[1])
	}
	subtype := ""
	if len(args) > 2 {
		subtype = args[2]
	}

	table := r.Resolve(obj.ID, subtype)
	fmt.Printf("Object:  %s\n", obj.Code)
	fmt.Printf("Mode:    %s\n", r.ModeFor(obj.ID, subtype))
	fmt.Printf("Entries: %d\n\n", len(table))

	header.Printf("%-4s %-32s %8s  %s\n", "#", "VARIANT", "ANGLE", "ATTRIBUTE")
	for i, def := range table {
		code := strconv.Itoa(int(def.VariantID))
		if v, ok := cat.Object(def.VariantID); ok {
			code = v.Code
		}
		attr := def.RotationAttribute
		if attr == "" {
			attr = "-"
		}
		fmt.Printf("%-4d %-32s %8.2f  %s\n", i, code, def.MeshAngle, attr)
	}
}

// parseFace parses "+x", "-y", "z" and friends into an outward normal.
func parseFace(s string) (grid.Pos, bool) {
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	axis, ok := grid.ParseAxis(s)
	if !ok {
		return grid.Pos{}, false
	}
	return grid.Unit(axis, sign), true
}

func parseFloat(name, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fail("invalid %s %q", name, s)
	}
	return v
}

func cmdSnap(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: ghosttool snap <face> <u> <v> [flag...]")
		os.Exit(1)
	}
	n, ok := parseFace(args[0])
	if !ok {
		fail("invalid face %q", args[0])
	}
	u := parseFloat("u", args[1])
	v := parseFloat("v", args[2])

	flags := snap.Default
	if len(args) > 3 {
		var err error
		if flags, err = snap.ParseFlags(args[3:]); err != nil {
			fail("%v", err)
		}
	}

	axis, _ := grid.NormalAxis(n)
	local := grid.FaceCenter(n)
	hAxis, vAxis := snap.PlaneAxes(axis)
	local[hAxis] = u
	local[vAxis] = v

	hit, _ := picking.NewHit(grid.Pos{}, n, local)
	h, vv := snap.Planar(hit)
	off := snap.Resolve(hit, flags)
	delta := snap.Delta(hit, flags)

	fmt.Printf("Face:      %s (%s)\n", args[0], n)
	fmt.Printf("Flags:     %s\n", flags)
	fmt.Printf("Local:     %s\n", formatVec(hit.Local))
	fmt.Printf("Planar:    h=%+.3f (%s) v=%+.3f (%s)\n", h, hAxis, vv, vAxis)
	fmt.Printf("Offsets:   h=%+d v=%+d\n", off.H, off.V)
	note := "snapped"
	if off.IsZero() {
		note = "in front of face"
	}
	fmt.Print("Candidate: ")
	good.Print(delta)
	fmt.Printf(" (%s)\n", note)
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

func cmdDelta(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ghosttool delta <from> <to>")
		os.Exit(1)
	}
	from := parseFloat("angle", args[0])
	to := parseFloat("angle", args[1])
	d := placement.ShortestDelta(from, to)
	fmt.Printf("%.2f -> %.2f: delta %+.2f (stored angle becomes %.2f)\n",
		from, to, d, orient.NormalizeAngle(from-d))
}

func cmdAngles(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ghosttool angles <granularity>")
		os.Exit(1)
	}
	g := orient.ParseGranularity(args[0])
	angles := orient.Angles(g)

	header.Printf("%s: %d angles\n", g, len(angles))
	parts := make([]string, len(angles))
	for i, a := range angles {
		parts[i] = strconv.FormatFloat(a, 'f', -1, 64)
	}
	fmt.Println(strings.Join(parts, " "))
}
