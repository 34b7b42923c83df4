package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/textilua/promoshop/internal/domain"
)

type CatalogUC struct {
	Products domain.ProductRepo
}

func (uc *CatalogUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *CatalogUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, errors.New("empty product id")
	}
	return uc.Products.FindByID(ctx, id)
}

// minPlausibleURL filters junk entries from legacy feeds; anything shorter
// cannot be a real image URL.
const minPlausibleURL = 10

const headwearCategoryID = "headwear"

// ResolveViewingAngles aggregates candidate images for a product and color
// into an ordered, deduplicated list of viewing angles, and picks the image to
// display. Curated image records for the color come first, then the product's
// default image as a safety net, then color-matched variant photos. If the
// currently displayed image survives resolution it is kept so incidental
// re-renders don't surprise the user.
func ResolveViewingAngles(p *domain.Product, selectedColor, current string) (urls []string, display string) {
	if p == nil {
		return nil, ""
	}

	var candidates []string

	matched := false
	for _, rec := range p.Images {
		if domain.ColorsMatch(rec.Color, selectedColor) {
			candidates = append(candidates, rec.URL)
			matched = true
		}
	}
	if !matched {
		for _, rec := range p.Images {
			if strings.TrimSpace(rec.Color) == "" || rec.IsMain {
				candidates = append(candidates, rec.URL)
			}
		}
	}

	candidates = append(candidates, p.Image)

	for _, v := range p.Variants {
		if domain.ColorsMatch(v.Color, selectedColor) {
			candidates = append(candidates, v.ImageURL)
		}
	}

	seen := make(map[string]bool)
	for _, u := range candidates {
		u = strings.TrimSpace(u)
		if len(u) <= minPlausibleURL || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		// Fallback of last resort: the default image is displayable even when
		// it fails the plausibility filter.
		if strings.TrimSpace(p.Image) == "" {
			return nil, ""
		}
		urls = append(urls, p.Image)
		seen[p.Image] = true
	}

	if current != "" && seen[current] {
		return urls, current
	}

	display = urls[0]
	if isHeadwear(p) {
		for _, u := range urls {
			if strings.Contains(strings.ToLower(u), "front") {
				display = u
				break
			}
		}
	}
	return urls, display
}

// Caps get a front-view preference: side and back shots are poor defaults for
// that product type.
func isHeadwear(p *domain.Product) bool {
	if p.CategoryID == headwearCategoryID {
		return true
	}
	title := strings.ToLower(p.Title)
	return strings.Contains(title, "кепк") || strings.Contains(title, "бейсболк") ||
		strings.Contains(title, "cap ") || strings.HasSuffix(title, "cap")
}

// GroupVariantsByColor groups variants that read as the same visual color for
// display; rows stay distinct inventory records inside each group.
func GroupVariantsByColor(variants []domain.Variant) [][]domain.Variant {
	var groups [][]domain.Variant
	for _, v := range variants {
		placed := false
		for i := range groups {
			if domain.ColorsMatch(groups[i][0].Color, v.Color) {
				groups[i] = append(groups[i], v)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []domain.Variant{v})
		}
	}
	return groups
}
