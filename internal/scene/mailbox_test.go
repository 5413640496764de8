package scene_test

import (
	"context"
	"image"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/genviz/internal/scene"
)

var _ = Describe("Mailbox", func() {
	It("keeps only the latest frame", func() {
		var mb scene.Mailbox
		a := image.NewRGBA(image.Rect(0, 0, 2, 2))
		a.Pix[0] = 1
		b := image.NewRGBA(image.Rect(0, 0, 2, 2))
		b.Pix[0] = 2
		mb.Put(a)
		mb.Put(b)

		var got uint8
		Expect(mb.Take(func(img *image.RGBA) { got = img.Pix[0] })).To(BeTrue())
		Expect(got).To(Equal(uint8(2)))
		Expect(mb.Seq()).To(Equal(uint64(2)))
	})

	It("reports nothing new until the next put", func() {
		var mb scene.Mailbox
		Expect(mb.Take(func(*image.RGBA) {})).To(BeFalse())
		mb.Put(image.NewRGBA(image.Rect(0, 0, 1, 1)))
		Expect(mb.Take(func(*image.RGBA) {})).To(BeTrue())
		Expect(mb.Take(func(*image.RGBA) {})).To(BeFalse())
	})

	It("copies so later writes to the source do not leak", func() {
		var mb scene.Mailbox
		src := image.NewRGBA(image.Rect(0, 0, 1, 1))
		src.Pix[0] = 9
		mb.Put(src)
		src.Pix[0] = 0
		mb.Take(func(img *image.RGBA) { Expect(img.Pix[0]).To(Equal(uint8(9))) })
	})

	It("reallocates when the frame size changes", func() {
		var mb scene.Mailbox
		mb.Put(image.NewRGBA(image.Rect(0, 0, 1, 1)))
		mb.Put(image.NewRGBA(image.Rect(0, 0, 3, 2)))
		mb.Take(func(img *image.RGBA) { Expect(img.Rect.Dx()).To(Equal(3)) })
	})

	It("ignores scenes without a surface", func() {
		var mb scene.Mailbox
		mb.Hook()(newTracer())
		Expect(mb.Seq()).To(BeZero())
	})

	It("receives frames from a running loop", func() {
		var mb scene.Mailbox
		p := newTracer()
		Expect(p.Resize(vp)).To(Succeed())
		l := scene.NewLoop(p, 200, nil)
		l.OnFrame(mb.Hook())
		l.Start(context.Background())
		DeferCleanup(l.Stop)

		Eventually(mb.Seq, time.Second).Should(BeNumerically(">=", 2))
		mb.Take(func(img *image.RGBA) {
			Expect(img.Rect.Dx()).To(Equal(32))
		})
	})
})
