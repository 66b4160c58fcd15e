package receipt

import (
	"context"
	"database/sql"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SQLiteStore", func() {
	var (
		dbPath string
		store  *SQLiteStore
		ctx    context.Context
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		ctx = context.Background()
		var err error
		store, err = NewSQLiteStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("schema init", func() {
		It("should be idempotent", func() {
			store.Close()
			var err error
			store, err = NewSQLiteStore(dbPath)
			Expect(err).NotTo(HaveOccurred())

			count, err := store.CountReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})

		It("should not duplicate the seed user on reopen", func() {
			store.Close()
			var err error
			store, err = NewSQLiteStore(dbPath)
			Expect(err).NotTo(HaveOccurred())

			var users int
			Expect(store.db.QueryRow(
				"SELECT COUNT(*) FROM users WHERE username = ?", DefaultUsername,
			).Scan(&users)).To(Succeed())
			Expect(users).To(Equal(1))
		})
	})

	Describe("migration", func() {
		When("the receipts table pre-exists without a user_id column", func() {
			var legacyPath string

			BeforeEach(func() {
				legacyPath = filepath.Join(GinkgoT().TempDir(), "legacy.db")

				db, err := sql.Open("sqlite", legacyPath)
				Expect(err).NotTo(HaveOccurred())
				_, err = db.Exec(`CREATE TABLE receipts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					vendor TEXT,
					date TEXT,
					amount REAL,
					filename TEXT
				)`)
				Expect(err).NotTo(HaveOccurred())
				_, err = db.Exec(
					"INSERT INTO receipts (vendor, date, amount, filename) VALUES (?, ?, ?, ?)",
					"DMart", "2023-11-02", 499.0, "old.jpg",
				)
				Expect(err).NotTo(HaveOccurred())
				Expect(db.Close()).To(Succeed())
			})

			It("should add the column with the documented default and keep existing rows", func() {
				migrated, err := NewSQLiteStore(legacyPath)
				Expect(err).NotTo(HaveOccurred())
				defer migrated.Close()

				receipts, err := migrated.ListReceipts(ctx, "admin")
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(1))
				Expect(receipts[0].Vendor).To(Equal("DMart"))
				Expect(receipts[0].UserID).To(Equal("admin"))
			})
		})
	})

	Describe("FindUser", func() {
		It("should find the default seed user", func() {
			ok, err := store.FindUser(ctx, "admin", "admin123")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should reject a wrong password", func() {
			ok, err := store.FindUser(ctx, "admin", "wrong")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should be case-sensitive on the password", func() {
			ok, err := store.FindUser(ctx, "admin", "ADMIN123")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should reject an unknown user", func() {
			ok, err := store.FindUser(ctx, "nobody", "admin123")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("EnsureSeedUser", func() {
		It("should report the seed user as already existing", func() {
			existed, err := store.EnsureSeedUser(ctx, DefaultUsername, DefaultPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(existed).To(BeTrue())
		})

		It("should insert a new user and report it as new", func() {
			existed, err := store.EnsureSeedUser(ctx, "alice", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(existed).To(BeFalse())

			ok, err := store.FindUser(ctx, "alice", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should not overwrite an existing user's password", func() {
			_, err := store.EnsureSeedUser(ctx, "admin", "different")
			Expect(err).NotTo(HaveOccurred())

			ok, err := store.FindUser(ctx, "admin", "admin123")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})

	Describe("InsertReceipt and ListReceipts", func() {
		It("should assign increasing IDs and list in insertion order", func() {
			first := &Receipt{Vendor: "Amazon", Date: "2024-05-01", Amount: 100, Filename: "a.jpg", UserID: "admin"}
			second := &Receipt{Vendor: "DMart", Date: "2024-04-01", Amount: 200, Filename: "b.jpg", UserID: "admin"}
			Expect(store.InsertReceipt(ctx, first)).To(Succeed())
			Expect(store.InsertReceipt(ctx, second)).To(Succeed())
			Expect(second.ID).To(BeNumerically(">", first.ID))

			receipts, err := store.ListReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts).To(HaveLen(2))
			Expect(receipts[0].Vendor).To(Equal("Amazon"))
			Expect(receipts[1].Vendor).To(Equal("DMart"))
		})

		It("should scope listing to the user", func() {
			Expect(store.InsertReceipt(ctx, &Receipt{Vendor: "Amazon", UserID: "admin"})).To(Succeed())
			Expect(store.InsertReceipt(ctx, &Receipt{Vendor: "Myntra", UserID: "alice"})).To(Succeed())

			receipts, err := store.ListReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts).To(HaveLen(1))
			Expect(receipts[0].Vendor).To(Equal("Amazon"))
		})

		It("should store values without validation", func() {
			r := &Receipt{Vendor: "", Date: "whenever", Amount: -12.5, Filename: "", UserID: "admin"}
			Expect(store.InsertReceipt(ctx, r)).To(Succeed())

			receipts, err := store.ListReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts[0].Date).To(Equal("whenever"))
			Expect(receipts[0].Amount).To(Equal(-12.5))
		})
	})

	Describe("CountReceipts", func() {
		It("should count only the user's records", func() {
			Expect(store.CountReceipts(ctx, "admin")).To(Equal(0))
			Expect(store.InsertReceipt(ctx, &Receipt{Vendor: "Amazon", UserID: "admin"})).To(Succeed())
			Expect(store.InsertReceipt(ctx, &Receipt{Vendor: "Amazon", UserID: "alice"})).To(Succeed())
			Expect(store.CountReceipts(ctx, "admin")).To(Equal(1))
		})
	})

	Describe("SeedDemoData", func() {
		BeforeEach(func() {
			Expect(store.SeedDemoData(ctx, "admin", DemoRecordCount)).To(Succeed())
		})

		It("should create the requested number of records", func() {
			Expect(store.CountReceipts(ctx, "admin")).To(Equal(DemoRecordCount))
		})

		It("should keep amounts within the documented range", func() {
			receipts, err := store.ListReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			for _, r := range receipts {
				Expect(r.Amount).To(BeNumerically(">=", 50))
				Expect(r.Amount).To(BeNumerically("<=", 2000))
			}
		})

		It("should draw vendors from the fixed pool and dates from 2024", func() {
			receipts, err := store.ListReceipts(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			for _, r := range receipts {
				Expect(demoVendors).To(ContainElement(r.Vendor))
				Expect(r.Date).To(HavePrefix("2024-"))
			}
		})
	})
})
