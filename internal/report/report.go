// Package report builds filtered views, aggregate statistics and trend
// groupings over a user's receipt records, and serializes them to a
// spreadsheet for download.
package report

import (
	"sort"
	"time"

	"github.com/jinzhu/now"
)

// dateLayout is the expected (but unenforced) format of a record date.
const dateLayout = "2006-01-02"

// Record is one receipt row as the reporting view sees it. Date stays a
// string because nothing upstream validates it; parsing happens here, per
// record, and parse failures degrade gracefully instead of faulting.
type Record struct {
	ID       int64
	Vendor   string
	Date     string
	Amount   float64
	Filename string
}

// Options narrows the record set before aggregation. A nil Vendors slice
// means no vendor filter; zero From/To mean an unbounded range on that side.
type Options struct {
	Vendors []string
	From    time.Time
	To      time.Time
}

// Totals holds the aggregate statistics over the filtered set. Mean is 0
// when Count is 0 rather than a division fault.
type Totals struct {
	Count int
	Sum   float64
	Mean  float64
}

// Bucket is one group in a trend view.
type Bucket struct {
	Key   string
	Total float64
}

// Report is the assembled reporting view.
type Report struct {
	Records  []Record
	Totals   Totals
	Daily    []Bucket
	Monthly  []Bucket
	ByVendor []Bucket
}

// Build filters records per opts, computes totals and the three trend
// groupings, and returns filtered records sorted by date descending.
func Build(records []Record, opts Options) Report {
	filtered := filter(records, opts)

	// Sort newest first for display and export. Records with unparseable
	// dates sink to the end; ties keep insertion order.
	sort.SliceStable(filtered, func(i, j int) bool {
		ti, iok := parseDate(filtered[i].Date)
		tj, jok := parseDate(filtered[j].Date)
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})

	return Report{
		Records:  filtered,
		Totals:   totals(filtered),
		Daily:    groupByDay(filtered),
		Monthly:  groupByMonth(filtered),
		ByVendor: groupByVendor(filtered),
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

func filter(records []Record, opts Options) []Record {
	vendors := make(map[string]struct{}, len(opts.Vendors))
	for _, v := range opts.Vendors {
		vendors[v] = struct{}{}
	}

	res := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(vendors) > 0 {
			if _, ok := vendors[rec.Vendor]; !ok {
				continue
			}
		}
		if !opts.From.IsZero() || !opts.To.IsZero() {
			date, ok := parseDate(rec.Date)
			if !ok {
				// A date bound cannot admit a record whose date does
				// not parse.
				continue
			}
			if !opts.From.IsZero() && date.Before(opts.From) {
				continue
			}
			if !opts.To.IsZero() && date.After(opts.To) {
				continue
			}
		}
		res = append(res, rec)
	}
	return res
}

func totals(records []Record) Totals {
	t := Totals{Count: len(records)}
	for _, rec := range records {
		t.Sum += rec.Amount
	}
	if t.Count > 0 {
		t.Mean = t.Sum / float64(t.Count)
	}
	return t
}

// groupByDay sums amounts per day, keys sorted ascending. Records whose
// date does not parse are left out of the trend.
func groupByDay(records []Record) []Bucket {
	m := make(map[string]float64)
	for _, rec := range records {
		if date, ok := parseDate(rec.Date); ok {
			m[date.Format(dateLayout)] += rec.Amount
		}
	}
	return sortedByKey(m)
}

// groupByMonth sums amounts per month, truncating each date to the first
// of its month. Keys sorted ascending.
func groupByMonth(records []Record) []Bucket {
	m := make(map[string]float64)
	for _, rec := range records {
		if date, ok := parseDate(rec.Date); ok {
			month := now.New(date).BeginningOfMonth()
			m[month.Format("2006-01")] += rec.Amount
		}
	}
	return sortedByKey(m)
}

// groupByVendor sums amounts per vendor, sorted by total descending.
func groupByVendor(records []Record) []Bucket {
	m := make(map[string]float64)
	for _, rec := range records {
		m[rec.Vendor] += rec.Amount
	}
	buckets := make([]Bucket, 0, len(m))
	for vendor, total := range m {
		buckets = append(buckets, Bucket{Key: vendor, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Total != buckets[j].Total {
			return buckets[i].Total > buckets[j].Total
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func sortedByKey(m map[string]float64) []Bucket {
	buckets := make([]Bucket, 0, len(m))
	for key, total := range m {
		buckets = append(buckets, Bucket{Key: key, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// Vendors returns the distinct vendors present in the records, sorted,
// for populating the filter control.
func Vendors(records []Record) []string {
	seen := make(map[string]struct{})
	res := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.Vendor]; ok {
			continue
		}
		seen[rec.Vendor] = struct{}{}
		res = append(res, rec.Vendor)
	}
	sort.Strings(res)
	return res
}
