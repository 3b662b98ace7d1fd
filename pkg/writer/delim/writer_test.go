package delim

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	reader "github.com/mzkit/peakdedup/pkg/reader/delim"
)

func TestWriteRestoresColumnOrder(t *testing.T) {
	input := strings.Join([]string{
		"Name,RT,Formula,m/z,Intensity",
		"caffeine,5.23,C8H10N4O2,266.121324,88319",
		"unknown,4.36,,309.16603,938000",
		"",
	}, "\n")

	res, err := reader.Read(strings.NewReader(input), reader.Options{Comma: ','})
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	var buf strings.Builder
	if err := Write(&buf, res.Table, res.Schema, Options{Comma: ','}); err != nil {
		t.Fatalf("Write(): %v", err)
	}

	if diff := cmp.Diff(input, buf.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTSV(t *testing.T) {
	input := "RT\tm/z\tIntensity\tNote\n5\t100\t500\tkeep, verbatim\n"

	res, err := reader.Read(strings.NewReader(input), reader.Options{Comma: '\t'})
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	var buf strings.Builder
	if err := Write(&buf, res.Table, res.Schema, Options{Comma: '\t'}); err != nil {
		t.Fatalf("Write(): %v", err)
	}

	if buf.String() != input {
		t.Errorf("round trip = %q, want %q", buf.String(), input)
	}
}

func TestWriteSchemaTableMismatch(t *testing.T) {
	res, err := reader.Read(strings.NewReader("RT,m/z,Intensity,Tag\n1,100,500,x\n"), reader.Options{Comma: ','})
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	other, err := reader.Read(strings.NewReader("RT,m/z,Intensity\n1,100,500\n"), reader.Options{Comma: ','})
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	var buf strings.Builder
	if err := Write(&buf, other.Table, res.Schema, Options{Comma: ','}); err == nil {
		t.Error("Write() with mismatched schema should fail")
	}
}
