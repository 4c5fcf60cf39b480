package containers

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
)

func newBillPage() *dom.Page {
	page := dom.NewPage()
	page.Replace(dom.NewNode("form").WithTestID(TestIDForm).Append(
		dom.NewNode("select").WithTestID(TestIDType),
		dom.NewNode("input").WithTestID(TestIDName),
		dom.NewNode("input").WithTestID(TestIDDate),
		dom.NewNode("input").WithTestID(TestIDAmount),
		dom.NewNode("input").WithTestID(TestIDVAT),
		dom.NewNode("input").WithTestID(TestIDPct),
		dom.NewNode("textarea").WithTestID(TestIDCommentary),
		dom.NewNode("input").WithTestID(TestIDFile),
	))
	return page
}

var _ = Describe("NewBill", func() {
	var (
		ctx       context.Context
		page      *dom.Page
		navigator *recordingNavigator
		st        *mockStore
		storage   *session.Memory
		deps      Deps
		container *NewBill
	)

	BeforeEach(func() {
		ctx = context.Background()
		page = newBillPage()
		navigator = &recordingNavigator{}
		st = newMockStore()
		storage = session.NewMemory()
		Expect(session.Login(storage, session.User{Type: session.Employee, Email: "a@a"})).To(Succeed())
		deps = Deps{Document: page, Navigator: navigator, Store: st, Session: storage}
	})

	JustBeforeEach(func() {
		container = NewNewBill(deps)
	})

	Describe("changing the file", func() {
		var file dom.File

		JustBeforeEach(func() {
			page.Node(TestIDFile).Upload(ctx, file)
		})

		When("the file is a jpg", func() {
			BeforeEach(func() {
				file = dom.File{Name: "file.jpg", ContentType: "image/jpeg", Data: []byte("test")}
			})

			It("should keep the original file name", func() {
				Expect(container.FileName()).To(Equal("file.jpg"))
			})

			It("should keep the selection on the input", func() {
				Expect(page.Node(TestIDFile).Files()).To(Equal([]dom.File{file}))
			})

			It("should upload the file with the session email", func() {
				uploads := st.Uploads()
				Expect(uploads).To(HaveLen(1))
				Expect(uploads[0].Filename).To(Equal("file.jpg"))
				Expect(uploads[0].Email).To(Equal("a@a"))
				Expect(uploads[0].Data).To(Equal([]byte("test")))
			})

			It("should record the upload key and file url", func() {
				billID, fileURL, _ := container.Pending()
				Expect(billID).To(Equal("1234"))
				Expect(fileURL).To(Equal("https://localhost:3456/images/test.jpg"))
			})
		})

		When("the extension is upper case", func() {
			BeforeEach(func() {
				file = dom.File{Name: "SCAN.PNG"}
			})

			It("should accept the file", func() {
				Expect(container.FileName()).To(Equal("SCAN.PNG"))
			})
		})

		When("the file is a pdf", func() {
			BeforeEach(func() {
				file = dom.File{Name: "file.pdf", ContentType: "application/pdf", Data: []byte("test")}
			})

			It("should leave the file name empty", func() {
				Expect(container.FileName()).To(BeEmpty())
			})

			It("should clear the input selection", func() {
				Expect(page.Node(TestIDFile).Files()).To(BeEmpty())
				Expect(page.Node(TestIDFile).Value()).To(BeEmpty())
			})

			It("should not upload anything", func() {
				Expect(st.Uploads()).To(BeEmpty())
			})
		})

		When("a valid file was accepted before an invalid one", func() {
			BeforeEach(func() {
				file = dom.File{Name: "file.jpg"}
			})

			It("should reset the file name", func() {
				Expect(container.FileName()).To(Equal("file.jpg"))
				page.Node(TestIDFile).Upload(ctx, dom.File{Name: "file.gif"})
				Expect(container.FileName()).To(BeEmpty())
			})
		})

		When("the upload fails", func() {
			BeforeEach(func() {
				file = dom.File{Name: "file.jpg"}
				st.uploadErr = errors.New("network down")
			})

			It("should not record pending state", func() {
				billID, fileURL, fileName := container.Pending()
				Expect(billID).To(BeEmpty())
				Expect(fileURL).To(BeEmpty())
				Expect(fileName).To(BeEmpty())
			})
		})

		When("the upload fails after a successful one", func() {
			BeforeEach(func() {
				file = dom.File{Name: "first.jpg"}
			})

			It("should keep the previous pending state", func() {
				st.uploadErr = errors.New("network down")
				page.Node(TestIDFile).Upload(ctx, dom.File{Name: "second.jpg"})
				billID, _, fileName := container.Pending()
				Expect(billID).To(Equal("1234"))
				Expect(fileName).To(Equal("first.jpg"))
			})
		})

		When("nobody is logged in", func() {
			BeforeEach(func() {
				file = dom.File{Name: "file.jpg"}
				session.Logout(storage)
			})

			It("should not upload", func() {
				Expect(st.Uploads()).To(BeEmpty())
				Expect(container.FileName()).To(BeEmpty())
			})
		})
	})

	Describe("submitting the form", func() {
		var ev *dom.Event

		fill := func(testID, value string) {
			page.Node(testID).SetValue(value)
		}

		BeforeEach(func() {
			fill(TestIDType, "Transports")
			fill(TestIDName, "Vol Paris Londres")
			fill(TestIDDate, "2022-05-12")
			fill(TestIDAmount, "348")
			fill(TestIDVAT, "70")
			fill(TestIDCommentary, "séminaire")
		})

		JustBeforeEach(func() {
			page.Node(TestIDFile).Upload(ctx, dom.File{Name: "file.jpg"})
			ev = page.Node(TestIDForm).Submit(ctx)
			container.Wait()
		})

		It("should prevent the default navigation", func() {
			Expect(ev.DefaultPrevented()).To(BeTrue())
		})

		It("should navigate to the bill list", func() {
			Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
		})

		It("should create a complete pending bill", func() {
			created := st.Created()
			Expect(created).To(HaveLen(1))
			Expect(created[0]).To(Equal(bill.Bill{
				ID:         "1234",
				Email:      "a@a",
				Type:       "Transports",
				Name:       "Vol Paris Londres",
				Amount:     348,
				Date:       "2022-05-12",
				VAT:        70,
				Pct:        20,
				Commentary: "séminaire",
				FileURL:    "https://localhost:3456/images/test.jpg",
				FileName:   "file.jpg",
				Status:     bill.StatusPending,
			}))
		})

		When("a percentage is given", func() {
			BeforeEach(func() {
				fill(TestIDPct, "10")
			})

			It("should use it", func() {
				Expect(st.Created()[0].Pct).To(Equal(10))
			})
		})

		When("the percentage is not a number", func() {
			BeforeEach(func() {
				fill(TestIDPct, "abc")
			})

			It("should default to 20", func() {
				Expect(st.Created()[0].Pct).To(Equal(bill.DefaultPct))
			})
		})

		When("the create call fails", func() {
			BeforeEach(func() {
				st.createErr = errors.New("Erreur 500")
			})

			It("should still navigate to the bill list", func() {
				Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
			})
		})

		When("navigation fails", func() {
			BeforeEach(func() {
				navigator.err = errors.New("no view")
			})

			It("should still send the bill", func() {
				Expect(st.Created()).To(HaveLen(1))
			})
		})
	})

	Describe("submitting while the store is slow", func() {
		JustBeforeEach(func() {
			page.Node(TestIDFile).Upload(ctx, dom.File{Name: "file.jpg"})
			st.release = make(chan struct{})
		})

		It("should navigate before the create call resolves", func() {
			page.Node(TestIDForm).Submit(ctx)

			Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
			Expect(st.Created()).To(BeEmpty())

			close(st.release)
			container.Wait()
			Expect(st.Created()).To(HaveLen(1))
		})

		It("should not abort the create when the caller's context is cancelled", func() {
			cancelCtx, cancel := context.WithCancel(ctx)
			page.Node(TestIDForm).Submit(cancelCtx)
			cancel()

			close(st.release)
			container.Wait()
			Expect(st.Created()).To(HaveLen(1))
		})
	})

	Describe("submitting without an accepted receipt", func() {
		var files []dom.File

		BeforeEach(func() {
			files = nil
			page.Node(TestIDDate).SetValue("2022-05-12")
		})

		JustBeforeEach(func() {
			for _, f := range files {
				page.Node(TestIDFile).Upload(ctx, f)
			}
			page.Node(TestIDForm).Submit(ctx)
			container.Wait()
		})

		When("no file was selected", func() {
			It("should not send the bill", func() {
				Expect(st.Created()).To(BeEmpty())
			})

			It("should still navigate to the bill list", func() {
				Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
			})
		})

		When("the selected file was a pdf", func() {
			BeforeEach(func() {
				files = []dom.File{{Name: "file.pdf", ContentType: "application/pdf"}}
			})

			It("should not send the bill", func() {
				Expect(st.Uploads()).To(BeEmpty())
				Expect(st.Created()).To(BeEmpty())
			})

			It("should still navigate to the bill list", func() {
				Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
			})
		})

		When("a pdf replaced an accepted receipt", func() {
			BeforeEach(func() {
				files = []dom.File{{Name: "file.jpg"}, {Name: "file.pdf"}}
			})

			It("should not send the bill", func() {
				Expect(st.Uploads()).To(HaveLen(1))
				Expect(st.Created()).To(BeEmpty())
			})
		})

		When("the upload failed", func() {
			BeforeEach(func() {
				files = []dom.File{{Name: "file.jpg"}}
				st.uploadErr = errors.New("network down")
			})

			It("should not send the bill", func() {
				Expect(st.Created()).To(BeEmpty())
				Expect(navigator.Routes()).To(Equal([]router.Route{router.Bills}))
			})
		})
	})

	Describe("concurrent file changes", func() {
		var first, second *dom.Node

		BeforeEach(func() {
			st.gates["first.jpg"] = make(chan struct{})
			st.gates["second.jpg"] = make(chan struct{})
			st.results["first.jpg"] = &store.UploadResult{Key: "k1", FileURL: "https://receipts.test/first.jpg"}
			st.results["second.jpg"] = &store.UploadResult{Key: "k2", FileURL: "https://receipts.test/second.jpg"}

			// detached inputs carry the selection without dispatching to the container
			first = dom.NewNode("input")
			first.Upload(ctx, dom.File{Name: "first.jpg"})
			second = dom.NewNode("input")
			second.Upload(ctx, dom.File{Name: "second.jpg"})
		})

		change := func(input *dom.Node) chan struct{} {
			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				container.HandleChangeFile(ctx, &dom.Event{Type: dom.Change, Target: input})
			}()
			return done
		}

		It("should keep the upload that finished last", func() {
			firstDone := change(first)
			secondDone := change(second)

			close(st.gates["second.jpg"])
			Eventually(secondDone).Should(BeClosed())
			close(st.gates["first.jpg"])
			Eventually(firstDone).Should(BeClosed())

			billID, fileURL, fileName := container.Pending()
			Expect(billID).To(Equal("k1"))
			Expect(fileURL).To(Equal("https://receipts.test/first.jpg"))
			Expect(fileName).To(Equal("first.jpg"))
			Expect(st.Uploads()).To(HaveLen(2))
		})

		It("should follow the order in which uploads finish", func() {
			firstDone := change(first)
			secondDone := change(second)

			close(st.gates["first.jpg"])
			Eventually(firstDone).Should(BeClosed())
			close(st.gates["second.jpg"])
			Eventually(secondDone).Should(BeClosed())

			billID, fileURL, fileName := container.Pending()
			Expect(billID).To(Equal("k2"))
			Expect(fileURL).To(Equal("https://receipts.test/second.jpg"))
			Expect(fileName).To(Equal("second.jpg"))
		})
	})
})

var _ = Describe("parseInt", func() {
	DescribeTable("reads the leading integer",
		func(in string, expected int) {
			Expect(parseInt(in)).To(Equal(expected))
		},
		Entry("plain", "348", 348),
		Entry("decimal", "12.5", 12),
		Entry("negative", "-3", -3),
		Entry("blank", "", 0),
		Entry("letters", "abc", 0),
	)
})
