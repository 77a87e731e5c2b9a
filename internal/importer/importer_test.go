package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,description,long_description,price_cents,stock,trending,image.bucket,image.key,image.filename,image.content_type,image.size
Prod One,Desc one,,2500,10,true,files,k-1,one.jpg,image/jpeg,100
,,,,,,files,k-2,two.jpg,image/jpeg,200
Prod Two,Desc two,<p>long</p>,900,0,,,,,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 products saved, got %d", len(repo.items))
	}

	first := repo.items[0]
	if first.Name != "Prod One" || first.PriceCents != 2500 || first.Stock != 10 || !first.Trending {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if len(first.Images) != 2 {
		t.Fatalf("expected 2 images on first product, got %d", len(first.Images))
	}
	if got := domain.FirstImageURL(first.Images); got != "/image/files/k-1" {
		t.Fatalf("unexpected first image url %s", got)
	}
	if first.Images[1].ServiceName != "s3" || first.Images[1].Size != 200 {
		t.Fatalf("unexpected continuation image %+v", first.Images[1])
	}

	second := repo.items[1]
	if second.LongDescription != "<p>long</p>" || second.Trending || len(second.Images) != 0 {
		t.Fatalf("unexpected second product %+v", second)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"bad price":   "name,price_cents\nProd,abc\n",
		"zero price":  "name,price_cents\nProd,0\n",
		"bad stock":   "name,price_cents,stock\nProd,100,-1\n",
		"no name col": "title,price_cents\nProd,100\n",
	}
	for name, data := range cases {
		repo := &stubProductRepo{}
		if _, err := NewCSVImporter(strings.NewReader(data), repo).Run(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if len(repo.items) != 0 {
			t.Fatalf("%s: nothing should be saved", name)
		}
	}
}
