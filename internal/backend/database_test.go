package backend

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/billed/internal/bill"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveBill", func() {
		var (
			b   *bill.Bill
			err error
		)

		BeforeEach(func() {
			b = &bill.Bill{ID: "test-id", Name: "Hotel", Amount: 300, Date: "2004-04-04", Status: bill.StatusPending}
		})

		JustBeforeEach(func() {
			err = db.SaveBill(b)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the bill to the database", func() {
				saved, getErr := db.GetBill("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Name).To(Equal("Hotel"))
				Expect(saved.Amount).To(Equal(300))
			})
		})

		When("the bill has no id", func() {
			BeforeEach(func() {
				b.ID = ""
			})

			It("returns an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("GetBill", func() {
		When("the bill does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := db.GetBill("missing")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("ListBills", func() {
		When("bills exist", func() {
			BeforeEach(func() {
				Expect(db.SaveBill(&bill.Bill{ID: "a"})).To(Succeed())
				Expect(db.SaveBill(&bill.Bill{ID: "b"})).To(Succeed())
			})

			It("should return all bills", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(HaveLen(2))
			})
		})

		When("no bills exist", func() {
			It("should return an empty slice", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).NotTo(BeNil())
				Expect(bills).To(BeEmpty())
			})
		})
	})

	Describe("Uploads", func() {
		It("should save and retrieve an upload", func() {
			Expect(db.SaveUpload(&Upload{Key: "k", Filename: "file.jpg", Path: "k_file.jpg"})).To(Succeed())
			u, err := db.GetUpload("k")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Filename).To(Equal("file.jpg"))
			Expect(u.Path).To(Equal("k_file.jpg"))
		})

		It("returns ErrNotFound for unknown keys", func() {
			_, err := db.GetUpload("missing")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("reopening", func() {
		It("should keep the data on disk", func() {
			Expect(db.SaveBill(&bill.Bill{ID: "persisted"})).To(Succeed())
			Expect(db.Close()).To(Succeed())

			var err error
			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			_, err = db.GetBill("persisted")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
