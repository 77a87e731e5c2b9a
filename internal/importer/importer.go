package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products by name.
//
// A row with a name starts a product; following rows with an empty name only
// contribute additional images to it.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Name      string
	Desc      string
	LongDesc  string
	Cents     int64
	Stock     int
	Trending  bool
	Images    []domain.Image
	parseErrs []string
}

// Run parses CSV rows and upserts products grouped by name.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, fmt.Errorf("read headers: missing name column")
	}

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if len(row.parseErrs) > 0 {
		return fmt.Errorf("invalid product row %q: %s", row.Name, strings.Join(row.parseErrs, ", "))
	}
	if row.Cents <= 0 {
		return fmt.Errorf("invalid product row %q: price_cents must be positive", row.Name)
	}

	p := domain.Product{
		Name:            row.Name,
		Description:     row.Desc,
		LongDescription: row.LongDesc,
		PriceCents:      row.Cents,
		Stock:           row.Stock,
		Trending:        row.Trending,
		Images:          row.Images,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	img := parseImage(record, index)

	if name == "" && img == nil {
		return nil
	}

	row := &csvRow{
		Name:     name,
		Desc:     pick(record, index, "description"),
		LongDesc: pick(record, index, "long_description"),
	}
	if img != nil {
		row.Images = []domain.Image{*img}
	}
	if name == "" {
		return row
	}

	if v := pick(record, index, "price_cents"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			row.parseErrs = append(row.parseErrs, "price_cents "+strconv.Quote(v))
		}
		row.Cents = cents
	}
	if v := pick(record, index, "stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			row.parseErrs = append(row.parseErrs, "stock "+strconv.Quote(v))
		}
		row.Stock = stock
	}
	if v := pick(record, index, "trending"); v != "" {
		trending, err := strconv.ParseBool(v)
		if err != nil {
			row.parseErrs = append(row.parseErrs, "trending "+strconv.Quote(v))
		}
		row.Trending = trending
	}
	return row
}

// parseImage reads the image.* columns; an image needs at least a key.
func parseImage(record []string, index map[string]int) *domain.Image {
	key := pick(record, index, "image.key")
	if key == "" {
		return nil
	}
	img := &domain.Image{
		ServiceName: pick(record, index, "image.service"),
		BucketName:  pick(record, index, "image.bucket"),
		Key:         key,
		Filename:    pick(record, index, "image.filename"),
		ContentType: pick(record, index, "image.content_type"),
	}
	if img.ServiceName == "" {
		img.ServiceName = "s3"
	}
	if img.BucketName == "" {
		img.BucketName = "files"
	}
	if img.Filename == "" {
		img.Filename = key
	}
	if img.ContentType == "" {
		img.ContentType = "application/octet-stream"
	}
	if size, err := strconv.ParseFloat(pick(record, index, "image.size"), 64); err == nil {
		img.Size = size
	}
	return img
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
