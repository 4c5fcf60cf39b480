package dom

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Page", func() {
	var (
		ctx  context.Context
		page *Page
	)

	BeforeEach(func() {
		ctx = context.Background()
		page = NewPage()
	})

	Describe("ByTestID", func() {
		When("the element exists in a nested node", func() {
			BeforeEach(func() {
				page.Replace(NewNode("table").Append(
					NewNode("tbody").WithTestID("tbody").Append(
						NewNode("div").WithTestID("icon-eye").WithAttr("data-bill-url", "a.jpg"),
						NewNode("div").WithTestID("icon-eye").WithAttr("data-bill-url", "b.jpg"),
					),
				))
			})

			It("should return the first match", func() {
				el := page.ByTestID("icon-eye")
				Expect(el).NotTo(BeNil())
				Expect(el.Attr("data-bill-url")).To(Equal("a.jpg"))
			})

			It("should return every match in document order", func() {
				els := page.AllByTestID("icon-eye")
				Expect(els).To(HaveLen(2))
				Expect(els[1].Attr("data-bill-url")).To(Equal("b.jpg"))
			})
		})

		When("the element does not exist", func() {
			It("should return a nil interface", func() {
				Expect(page.ByTestID("missing")).To(BeNil())
			})
		})
	})

	Describe("Replace", func() {
		It("should drop previous content and modals", func() {
			page.Replace(NewNode("div").WithTestID("old"))
			page.AddModal("modaleFile", "Justificatif", 800)
			page.Replace(NewNode("div").WithTestID("new"))
			Expect(page.ByTestID("old")).To(BeNil())
			Expect(page.Modal("modaleFile")).To(BeNil())
			Expect(page.ByTestID("new")).NotTo(BeNil())
		})
	})

	Describe("Node events", func() {
		var (
			node  *Node
			calls []string
		)

		BeforeEach(func() {
			calls = nil
			node = NewNode("input").WithTestID("file")
			node.AddEventListener(Change, func(ctx context.Context, ev *Event) {
				calls = append(calls, ev.Target.ID())
				ev.PreventDefault()
			})
		})

		It("should dispatch to listeners with the node as target", func() {
			ev := node.Upload(ctx, File{Name: "file.jpg"})
			Expect(calls).To(Equal([]string{node.ID()}))
			Expect(ev.DefaultPrevented()).To(BeTrue())
		})

		It("should record the selected files", func() {
			node.Upload(ctx, File{Name: "file.jpg"})
			Expect(node.Files()).To(HaveLen(1))
			Expect(node.Value()).To(HaveSuffix("file.jpg"))
		})

		It("should clear the selection when the value is reset", func() {
			node.Upload(ctx, File{Name: "file.jpg"})
			node.SetValue("")
			Expect(node.Files()).To(BeEmpty())
		})

		It("should ignore events without listeners", func() {
			node.Click(ctx)
			Expect(calls).To(BeEmpty())
		})
	})

	Describe("ModalDialog", func() {
		It("should record the image and visibility", func() {
			m := page.AddModal("modaleFile", "Justificatif", 600)
			m.SetImage("a.jpg", 300)
			m.Show()
			src, width := m.Image()
			Expect(src).To(Equal("a.jpg"))
			Expect(width).To(Equal(300))
			Expect(m.Shown()).To(BeTrue())
			Expect(m.Title()).To(Equal("Justificatif"))
		})
	})
})
