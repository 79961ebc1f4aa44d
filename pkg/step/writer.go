// Package step writes triangle meshes as ISO 10303-21 (STEP) files using the
// AP214 faceted boundary representation.
package step

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/stl"
	"github.com/philipparndt/cupforge/version"
)

// DefaultWeldTolerance is the distance under which mesh vertices are merged
const DefaultWeldTolerance = 1e-6

// ErrNothingTransferred is returned when writing before any shape was transferred
var ErrNothingTransferred = errors.New("no shape transferred")

// Writer collects shapes and writes them into a single STEP file
type Writer struct {
	// ProductName names the product and the faceted solid in the file
	ProductName string
	// WeldTolerance controls vertex merging; zero means DefaultWeldTolerance
	WeldTolerance float64
	// Now returns the timestamp stored in the header; nil means time.Now
	Now func() time.Time

	points []geometry.Vector3
	index  map[geometry.Vector3]int
	faces  [][3]int
}

// NewWriter creates a writer for a product with the given name
func NewWriter(productName string) *Writer {
	return &Writer{ProductName: productName}
}

// FaceCount returns the number of faces staged so far
func (w *Writer) FaceCount() int {
	return len(w.faces)
}

// PointCount returns the number of distinct vertices staged so far
func (w *Writer) PointCount() int {
	return len(w.points)
}

// Transfer stages the triangles of a mesh for writing. Coincident vertices
// are welded and triangles that collapse after welding are dropped.
func (w *Writer) Transfer(model *stl.Model) Status {
	if model == nil {
		return RetError
	}
	if w.index == nil {
		w.index = make(map[geometry.Vector3]int)
	}
	tol := w.WeldTolerance
	if tol <= 0 {
		tol = DefaultWeldTolerance
	}

	added := 0
	for _, tri := range model.Triangles {
		a := w.point(tri.V1.Quantize(tol))
		b := w.point(tri.V2.Quantize(tol))
		c := w.point(tri.V3.Quantize(tol))
		if a == b || b == c || a == c {
			continue
		}
		w.faces = append(w.faces, [3]int{a, b, c})
		added++
	}
	if added == 0 {
		return RetVoid
	}
	return RetDone
}

func (w *Writer) point(p geometry.Vector3) int {
	if i, ok := w.index[p]; ok {
		return i
	}
	w.points = append(w.points, p)
	w.index[p] = len(w.points) - 1
	return len(w.points) - 1
}

// Write stores the staged shapes in the file at path
func (w *Writer) Write(ctx context.Context, path string) (Status, error) {
	if len(w.faces) == 0 {
		return RetVoid, ErrNothingTransferred
	}
	if err := ctx.Err(); err != nil {
		return RetStop, err
	}

	f, err := os.Create(path)
	if err != nil {
		return RetFail, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return RetFail, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return RetFail, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return RetDone, nil
}

// WriteTo writes the STEP exchange structure to out
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if len(w.faces) == 0 {
		return 0, ErrNothingTransferred
	}
	cw := &countingWriter{w: out}
	bw := bufio.NewWriter(cw)
	e := &encoder{w: bw}

	name := w.ProductName
	if name == "" {
		name = "shape"
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	e.line("ISO-10303-21;")
	e.line("HEADER;")
	e.line("FILE_DESCRIPTION((%s),'2;1');", quote("faceted boundary representation"))
	e.line("FILE_NAME(%s,%s,(''),(''),%s,'cupforge','');",
		quote(name), quote(now().UTC().Format("2006-01-02T15:04:05")), quote("cupforge "+version.GetVersion()))
	e.line("FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));")
	e.line("ENDSEC;")
	e.line("DATA;")

	appContext := e.entity("APPLICATION_CONTEXT('core data for automotive mechanical design processes')")
	e.entity("APPLICATION_PROTOCOL_DEFINITION('international standard','automotive_design',2000,%s)", appContext)
	productContext := e.entity("PRODUCT_CONTEXT('',%s,'mechanical')", appContext)
	product := e.entity("PRODUCT(%s,%s,'',(%s))", quote(name), quote(name), productContext)
	formation := e.entity("PRODUCT_DEFINITION_FORMATION('','',%s)", product)
	defContext := e.entity("PRODUCT_DEFINITION_CONTEXT('part definition',%s,'design')", appContext)
	definition := e.entity("PRODUCT_DEFINITION('design','',%s,%s)", formation, defContext)
	shape := e.entity("PRODUCT_DEFINITION_SHAPE('','',%s)", definition)
	e.entity("PRODUCT_RELATED_PRODUCT_CATEGORY('part',$,(%s))", product)

	length := e.entity("(LENGTH_UNIT()NAMED_UNIT(*)SI_UNIT(.MILLI.,.METRE.))")
	angle := e.entity("(NAMED_UNIT(*)PLANE_ANGLE_UNIT()SI_UNIT($,.RADIAN.))")
	solidAngle := e.entity("(NAMED_UNIT(*)SI_UNIT($,.STERADIAN.)SOLID_ANGLE_UNIT())")
	uncertainty := e.entity("UNCERTAINTY_MEASURE_WITH_UNIT(LENGTH_MEASURE(%s),%s,'distance_accuracy_value','confusion accuracy')",
		stepReal(DefaultWeldTolerance), length)
	geomContext := e.entity("(GEOMETRIC_REPRESENTATION_CONTEXT(3)GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT((%s))"+
		"GLOBAL_UNIT_ASSIGNED_CONTEXT((%s,%s,%s))REPRESENTATION_CONTEXT('Context #1','3D Context with UNIT and UNCERTAINTY'))",
		uncertainty, length, angle, solidAngle)

	origin := e.entity("CARTESIAN_POINT('',(0.,0.,0.))")
	zDir := e.entity("DIRECTION('',(0.,0.,1.))")
	xDir := e.entity("DIRECTION('',(1.,0.,0.))")
	placement := e.entity("AXIS2_PLACEMENT_3D('',%s,%s,%s)", origin, zDir, xDir)

	points := make([]string, len(w.points))
	for i, p := range w.points {
		points[i] = e.entity("CARTESIAN_POINT('',(%s,%s,%s))", stepReal(p.X), stepReal(p.Y), stepReal(p.Z))
	}

	faces := make([]string, len(w.faces))
	for i, f := range w.faces {
		loop := e.entity("POLY_LOOP('',(%s,%s,%s))", points[f[0]], points[f[1]], points[f[2]])
		bound := e.entity("FACE_OUTER_BOUND('',%s,.T.)", loop)
		faces[i] = e.entity("FACE('',(%s))", bound)
	}

	shell := e.entity("CLOSED_SHELL('',(%s))", strings.Join(faces, ","))
	brep := e.entity("FACETED_BREP(%s,%s)", quote(name), shell)
	rep := e.entity("FACETED_BREP_SHAPE_REPRESENTATION(%s,(%s,%s),%s)", quote(name), placement, brep, geomContext)
	e.entity("SHAPE_DEFINITION_REPRESENTATION(%s,%s)", shape, rep)

	e.line("ENDSEC;")
	e.line("END-ISO-10303-21;")

	if e.err == nil {
		e.err = bw.Flush()
	}
	return cw.n, e.err
}

// encoder numbers entity instances and keeps the first write error
type encoder struct {
	w    *bufio.Writer
	next int
	err  error
}

func (e *encoder) line(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// entity writes one instance and returns its reference
func (e *encoder) entity(format string, args ...any) string {
	e.next++
	ref := "#" + strconv.Itoa(e.next)
	e.line(ref+"="+format+";", args...)
	return ref
}

// quote encodes a STEP string literal
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// stepReal encodes a STEP real, which always carries a decimal point
func stepReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	if s == "-0." {
		s = "0."
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	if f != 0 && (s == "0." || s == "-0.") {
		// below six decimals, fall back to exponent form
		s = strconv.FormatFloat(f, 'E', -1, 64)
		if !strings.Contains(s, ".") {
			s = strings.Replace(s, "E", ".E", 1)
		}
	}
	return s
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
