package sqlkit

import (
	"net"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

type document struct {
	Id   int64
	Tags []string
	Meta map[string]int
}

func TestScanAllWithJSONColumns(t *testing.T) {
	t.Parallel()
	s, err := schemaOf(reflect.TypeOf(document{}))
	if err != nil {
		t.Fatal(err)
	}
	rows := &fakeRows{data: [][]interface{}{
		{int64(1), []byte(`["a","b"]`), []byte(`{"views":3}`)},
		{int64(2), nil, nil},
	}}
	docs, err := scanAll[document](s, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d", len(docs))
	}
	if !reflect.DeepEqual(docs[0].Tags, []string{"a", "b"}) {
		t.Errorf("Tags = %v", docs[0].Tags)
	}
	if docs[0].Meta["views"] != 3 {
		t.Errorf("Meta = %v", docs[0].Meta)
	}
	if docs[1].Tags != nil || docs[1].Meta != nil {
		t.Errorf("null JSON columns should stay zero: %+v", docs[1])
	}
}

func TestNeedsJSONScan(t *testing.T) {
	t.Parallel()
	if needsJSONScan(reflect.TypeOf(time.Time{})) {
		t.Error("time.Time is not a JSON column")
	}
	if needsJSONScan(reflect.TypeOf(uuid.UUID{})) {
		t.Error("uuid.UUID is not a JSON column")
	}
	if needsJSONScan(reflect.TypeOf([]byte(nil))) {
		t.Error("[]byte is not a JSON column")
	}
	if !needsJSONScan(reflect.TypeOf([]string(nil))) {
		t.Error("[]string round-trips through JSON")
	}
	if !needsJSONScan(reflect.TypeOf(map[string]int(nil))) {
		t.Error("maps round-trip through JSON")
	}
	if !needsJSONScan(reflect.TypeOf(&struct{ A int }{})) {
		t.Error("struct pointers round-trip through JSON")
	}
}

type device struct {
	Id   int64
	Ip   netip.Addr
	Mac  net.HardwareAddr
	Note string
}

func TestScanInetAndMac(t *testing.T) {
	t.Parallel()
	s, err := schemaOf(reflect.TypeOf(device{}))
	if err != nil {
		t.Fatal(err)
	}
	rows := &fakeRows{data: [][]interface{}{
		{int64(1), "192.168.1.10", "aa:bb:cc:dd:ee:ff", "router"},
	}}
	devices, err := scanAll[device](s, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 {
		t.Fatalf("len = %d", len(devices))
	}
	if devices[0].Ip.String() != "192.168.1.10" {
		t.Errorf("Ip = %v", devices[0].Ip)
	}
	if devices[0].Mac.String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("Mac = %v", devices[0].Mac)
	}
}

func TestJSONScanner(t *testing.T) {
	t.Parallel()
	var tags []string
	sc := jsonScanner{dest: &tags}
	if err := sc.Scan(`["x"]`); err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "x" {
		t.Errorf("tags = %v", tags)
	}
	if err := sc.Scan(nil); err != nil {
		t.Errorf("nil scan: %v", err)
	}
	if err := sc.Scan(42); err == nil {
		t.Error("int source should fail")
	}
}
