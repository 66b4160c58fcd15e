package receipt

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// demoVendors is the fixed vendor pool for demo seeding.
var demoVendors = []string{"Amazon", "Flipkart", "Big Bazaar", "DMart", "Reliance Fresh", "Myntra"}

// DemoRecordCount is how many synthetic records a fresh account gets.
const DemoRecordCount = 20

// SeedDemoData generates n synthetic records for the user: random vendors
// from the fixed pool, random 2024 dates (day capped at 28 so every month
// works), and amounts uniform in [50, 2000] rounded to cents. Purely a UX
// convenience so a fresh account sees non-empty charts.
func (s *SQLiteStore) SeedDemoData(ctx context.Context, userID string, n int) error {
	for i := 0; i < n; i++ {
		vendor := demoVendors[rand.IntN(len(demoVendors))]
		date := time.Date(2024, time.Month(1+rand.IntN(12)), 1+rand.IntN(28), 0, 0, 0, 0, time.UTC)
		amount := math.Round((50+rand.Float64()*1950)*100) / 100

		r := &Receipt{
			Vendor:   vendor,
			Date:     date.Format("2006-01-02"),
			Amount:   amount,
			Filename: fmt.Sprintf("fake_%04d.jpg", 1000+rand.IntN(9000)),
			UserID:   userID,
		}
		if err := s.InsertReceipt(ctx, r); err != nil {
			return fmt.Errorf("seeding demo record: %w", err)
		}
	}
	return nil
}
