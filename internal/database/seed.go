// internal/database/seed.go
package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

const seedHistoryDays = 30

type seedProduct struct {
	name, nameLocal, category, unit string
	basePrice                       int64
}

var seedProducts = []seedProduct{
	{"Tomato", "टोमॅटो", "Vegetables", "kg", 40},
	{"Onion", "कांदा", "Vegetables", "kg", 35},
	{"Potato", "बटाटा", "Vegetables", "kg", 30},
	{"Green Chilli", "हिरवी मिरची", "Vegetables", "kg", 80},
	{"Banana", "केळ", "Fruits", "dozen", 50},
	{"Mango", "आंबा", "Fruits", "kg", 120},
	{"Rice (Sona Masoori)", "तांदूळ", "Grains & Pulses", "kg", 55},
	{"Wheat Flour", "गहू पीठ", "Grains & Pulses", "kg", 45},
}

// Seed loads demo reference data, accounts and a month of approved prices.
// It does nothing when any city already exists.
func Seed(ctx context.Context, store repository.Store, today time.Time) error {
	cities, err := store.ListCities(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if len(cities) > 0 {
		logrus.Info("Seed data already present, skipping")
		return nil
	}

	logrus.Info("Seeding initial data")

	mumbai := &models.City{Name: "Mumbai", State: "Maharashtra", IsActive: true}
	if err := store.CreateCity(ctx, mumbai); err != nil {
		return fmt.Errorf("failed to create city: %w", err)
	}

	markets := []*models.Market{
		{Name: "Dadar Market", Area: "Dadar", Address: "Dadar, Mumbai"},
		{Name: "Andheri Market", Area: "Andheri", Address: "Andheri West, Mumbai"},
		{Name: "Bandra Market", Area: "Bandra", Address: "Bandra West, Mumbai"},
		{Name: "Borivali Market", Area: "Borivali", Address: "Borivali East, Mumbai"},
		{Name: "Vasai Market", Area: "Vasai", Address: "Vasai, Mumbai"},
		{Name: "Navi Mumbai APMC", Area: "Navi Mumbai", Address: "Vashi, Navi Mumbai"},
	}
	for _, market := range markets {
		market.CityID = mumbai.ID
		market.IsActive = true
		if err := store.CreateMarket(ctx, market); err != nil {
			return fmt.Errorf("failed to create market %s: %w", market.Name, err)
		}
	}

	categories := map[string]*models.ProductCategory{
		"Vegetables":      {Name: "Vegetables", NameLocal: "भाजीपाला"},
		"Fruits":          {Name: "Fruits", NameLocal: "फळे"},
		"Grains & Pulses": {Name: "Grains & Pulses", NameLocal: "धान्य"},
	}
	for _, category := range categories {
		if err := store.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %s: %w", category.Name, err)
		}
	}

	products := make([]*models.Product, 0, len(seedProducts))
	for _, sp := range seedProducts {
		product := &models.Product{
			Name:       sp.name,
			NameLocal:  sp.nameLocal,
			CategoryID: categories[sp.category].ID,
			Unit:       sp.unit,
			IsActive:   true,
		}
		if err := store.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to create product %s: %w", sp.name, err)
		}
		products = append(products, product)
	}

	admin, err := seedUser(ctx, store, "Admin User", "admin@fairprice.in", "admin123", models.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := seedUser(ctx, store, "Ramesh Patil", "farmer@fairprice.in", "farmer123", models.RoleFarmer); err != nil {
		return err
	}
	if _, err := seedUser(ctx, store, "Priya Sharma", "consumer@fairprice.in", "consumer123", models.RoleConsumer); err != nil {
		return err
	}

	var vendors []*models.User
	for i, v := range []struct{ name, shop string }{
		{"Suresh Vendor", "Suresh Vegetables"},
		{"Mahesh Vendor", "Mahesh Fresh"},
	} {
		vendor, err := seedUser(ctx, store, v.name, fmt.Sprintf("vendor%d@fairprice.in", i+1), "vendor123", models.RoleVendor)
		if err != nil {
			return err
		}
		profile := &models.VendorProfile{UserID: vendor.ID, MarketID: markets[0].ID, ShopName: v.shop}
		if err := store.CreateVendorProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to create vendor profile: %w", err)
		}
		vendors = append(vendors, vendor)
	}

	// Deterministic noise keeps demo charts stable across restarts.
	rng := rand.New(rand.NewSource(42))
	reviewedAt := time.Now().UTC()
	for daysAgo := seedHistoryDays; daysAgo >= 1; daysAgo-- {
		entryDate := utils.AddDays(today, -daysAgo)
		for i, product := range products {
			base := float64(seedProducts[i].basePrice)
			for _, vendor := range vendors {
				for _, market := range markets[:3] {
					noise := (rng.Float64()*2 - 1) * base * 0.15
					entry := &models.PriceEntry{
						VendorID:     vendor.ID,
						ProductID:    product.ID,
						MarketID:     market.ID,
						PricePerUnit: decimal.NewFromFloat(base + noise).Round(2),
						EntryDate:    entryDate,
						Status:       models.PriceStatusApproved,
						ReviewedBy:   uuidPtr(admin.ID),
						ReviewedAt:   &reviewedAt,
					}
					if err := store.InsertPrice(ctx, entry); err != nil {
						return fmt.Errorf("failed to insert seed price: %w", err)
					}
				}
			}
		}
	}

	// A few pending entries for the moderation queue
	for i, product := range products[:3] {
		entry := &models.PriceEntry{
			VendorID:     vendors[0].ID,
			ProductID:    product.ID,
			MarketID:     markets[0].ID,
			PricePerUnit: decimal.NewFromInt(seedProducts[i].basePrice),
			EntryDate:    today,
			Status:       models.PriceStatusPending,
		}
		if err := store.InsertPrice(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert pending price: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"markets":  len(markets),
		"products": len(products),
		"days":     seedHistoryDays,
	}).Info("Initial data seeding completed")
	return nil
}

func seedUser(ctx context.Context, store repository.UserStore, fullName, email, password string, role models.Role) (*models.User, error) {
	user := &models.User{
		FullName: fullName,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to set password for %s: %w", email, err)
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return user, nil
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
