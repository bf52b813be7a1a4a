package service

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kaucja/internal/core/normalize"
	"kaucja/internal/core/packaging"
	"kaucja/internal/platform/testkit"
	"kaucja/internal/services/scan/domain"
)

// wire-format builders for test fixtures

func record(typ uint16, payload []byte) []byte {
	b := make([]byte, 6+len(payload))
	binary.BigEndian.PutUint16(b[2:], typ)
	binary.BigEndian.PutUint16(b[4:], uint16(6+len(payload)))
	copy(b[6:], payload)
	return b
}

func bcd6(v uint64) []byte {
	b := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		b[i] = byte(v%10) | byte((v/10)%10)<<4
		v /= 100
	}
	return b
}

func headerRecord(docNumber uint32) []byte {
	p := make([]byte, 10)
	p[0] = 0x01
	binary.BigEndian.PutUint32(p[1:], 631152000) // 2020-01-01 on the device epoch
	binary.BigEndian.PutUint32(p[5:], docNumber)
	return record(0x44, p)
}

func textRecord(line string) []byte {
	p := append([]byte{byte(len(line))}, line...)
	return record(0x0A, p)
}

// depositRecord encodes one 0x63 payload: value and total in hundredths,
// sign nonzero for returns
func depositRecord(name string, valueCents, qtyRaw, totalCents uint64, sign byte) []byte {
	p := make([]byte, 61)
	copy(p[:40], name)
	copy(p[40:46], bcd6(valueCents))
	copy(p[46:52], bcd6(qtyRaw))
	p[52] = 0 // quantity precision
	copy(p[53:59], bcd6(totalCents))
	p[59] = sign
	return record(0x63, p)
}

func concat(recs ...[]byte) []byte {
	var out []byte
	for _, r := range recs {
		out = append(out, r...)
	}
	return out
}

func newTestService(t *testing.T, recorder domain.RecorderPort) *Service {
	t.Helper()
	vocab, err := packaging.LoadVocab()
	if err != nil {
		t.Fatalf("LoadVocab: %v", err)
	}
	return New(packaging.NewExtractor(vocab, normalize.New()), recorder, Config{Workers: 2})
}

func TestRunScansArchive(t *testing.T) {
	t.Parallel()

	issued := concat(
		headerRecord(101),
		depositRecord("KAUCJA SZKLO", 100, 1, 100, 0),
	)
	returned := concat(
		headerRecord(102),
		depositRecord("KAUCJA SZKLO", 100, 1, 100, 1),
	)
	heuristic := concat(
		headerRecord(201),
		textRecord("KAUCJA BUTELKA 2 x 0.50 1.00"),
	)

	root := testkit.WriteTree(t, map[string][]byte{
		"LODZ/P01/0101.bin": issued,
		"LODZ/P01/0102.bin": returned,
		"WAWA/P02/0201.bin": heuristic,
	})

	svc := newTestService(t, nil)
	res, err := svc.Run(context.Background(), domain.Input{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.FilesScanned != 3 || res.FilesFailed != 0 {
		t.Fatalf("scanned/failed = %d/%d", res.FilesScanned, res.FilesFailed)
	}
	if len(res.Details) != 3 {
		t.Fatalf("details = %d: %+v", len(res.Details), res.Details)
	}

	// deterministic ordering: location, printer, file
	if res.Details[0].DocNumber != 101 || res.Details[1].DocNumber != 102 || res.Details[2].DocNumber != 201 {
		t.Fatalf("detail order = %+v", res.Details)
	}
	if res.Details[1].Total.String() != "-1" && res.Details[1].Total.String() != "-1.00" {
		t.Fatalf("return total = %s", res.Details[1].Total)
	}
	if res.Details[2].Source != "heuristic" {
		t.Fatalf("heuristic source = %s", res.Details[2].Source)
	}

	if len(res.Aggregates) != 2 {
		t.Fatalf("aggregates = %+v", res.Aggregates)
	}
	szklo := res.Aggregates[0]
	if szklo.Location != "LODZ" || szklo.Printer != "P01" {
		t.Fatalf("first bucket = %+v", szklo)
	}
	if szklo.Rows != 2 || szklo.Issued != 1 || szklo.Returns != 1 {
		t.Fatalf("szklo counts = %+v", szklo)
	}
	if !szklo.SumTotal.IsZero() {
		t.Fatalf("szklo sum = %s", szklo.SumTotal)
	}
	butelka := res.Aggregates[1]
	if butelka.Location != "WAWA" || butelka.Rows != 1 || butelka.Issued != 1 {
		t.Fatalf("butelka bucket = %+v", butelka)
	}
	if !butelka.SumTotal.Equal(decimal.RequireFromString("1.00")) {
		t.Fatalf("butelka sum = %s", butelka.SumTotal)
	}
}

func TestRunUnmatchedLinesOnlyWithAll(t *testing.T) {
	t.Parallel()

	doc := concat(
		headerRecord(300),
		textRecord("kaucja bez kwot"),
	)
	root := testkit.WriteTree(t, map[string][]byte{
		"LODZ/P01/0300.bin": doc,
	})
	svc := newTestService(t, nil)

	res, err := svc.Run(context.Background(), domain.Input{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Details) != 0 || len(res.Aggregates) != 0 {
		t.Fatalf("unexpected rows without -all: %+v", res.Details)
	}

	res, err = svc.Run(context.Background(), domain.Input{Root: root, All: true})
	if err != nil {
		t.Fatalf("Run(all): %v", err)
	}
	if len(res.Details) != 1 || res.Details[0].Source != SourceUnmatched {
		t.Fatalf("details = %+v", res.Details)
	}
	if len(res.Aggregates) != 0 {
		t.Fatalf("unmatched rows must not aggregate: %+v", res.Aggregates)
	}
}

func TestRunStructuredSuppressesHeuristic(t *testing.T) {
	t.Parallel()

	doc := concat(
		headerRecord(400),
		depositRecord("KAUCJA SZKLO", 100, 1, 100, 0),
		textRecord("KAUCJA SZKLO 1 x 1.00 1.00"),
	)
	root := testkit.WriteTree(t, map[string][]byte{
		"LODZ/P01/0400.bin": doc,
	})
	svc := newTestService(t, nil)

	res, err := svc.Run(context.Background(), domain.Input{Root: root, All: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Details) != 1 || res.Details[0].Source != "structured" {
		t.Fatalf("details = %+v", res.Details)
	}
}

func TestRunCountsEmptyDocs(t *testing.T) {
	t.Parallel()

	root := testkit.WriteTree(t, map[string][]byte{
		"LODZ/P01/junk.bin": {0xDE, 0xAD, 0xBE, 0xEF},
	})
	svc := newTestService(t, nil)

	res, err := svc.Run(context.Background(), domain.Input{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FilesScanned != 1 || len(res.Details) != 0 {
		t.Fatalf("result = %+v", res)
	}
}

type fakeRecorder struct {
	runs  int
	runID uuid.UUID
	rows  []domain.DetailRow
}

func (f *fakeRecorder) RecordRun(_ context.Context, _ domain.Input, _ domain.Result) (uuid.UUID, error) {
	f.runs++
	f.runID = uuid.New()
	return f.runID, nil
}

func (f *fakeRecorder) RecordRows(_ context.Context, runID uuid.UUID, rows []domain.DetailRow) (int, error) {
	if runID != f.runID {
		return 0, nil
	}
	f.rows = append(f.rows, rows...)
	return len(rows), nil
}

func TestRunPersistsThroughRecorder(t *testing.T) {
	t.Parallel()

	doc := concat(headerRecord(500), depositRecord("KAUCJA SZKLO", 100, 1, 100, 0))
	root := testkit.WriteTree(t, map[string][]byte{
		"LODZ/P01/0500.bin": doc,
	})

	rec := &fakeRecorder{}
	svc := newTestService(t, rec)

	if _, err := svc.Run(context.Background(), domain.Input{Root: root, Persist: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.runs != 1 || len(rec.rows) != 1 {
		t.Fatalf("recorder saw runs=%d rows=%d", rec.runs, len(rec.rows))
	}

	// without Persist the recorder stays untouched
	if _, err := svc.Run(context.Background(), domain.Input{Root: root}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.runs != 1 {
		t.Fatalf("recorder called without persist: runs=%d", rec.runs)
	}
}
