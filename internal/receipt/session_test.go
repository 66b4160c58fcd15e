package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SessionManager", func() {
	var manager *SessionManager

	BeforeEach(func() {
		manager = NewSessionManager()
	})

	Describe("Create", func() {
		It("should return a session bound to the user", func() {
			session := manager.Create("admin")
			Expect(session.ID).NotTo(BeEmpty())
			Expect(session.UserID).To(Equal("admin"))
			Expect(session.CreatedAt).NotTo(BeZero())
		})

		It("should issue distinct IDs per login", func() {
			first := manager.Create("admin")
			second := manager.Create("admin")
			Expect(first.ID).NotTo(Equal(second.ID))
		})

		It("should keep concurrent logins for different users independent", func() {
			alice := manager.Create("alice")
			bob := manager.Create("bob")

			got, ok := manager.Get(alice.ID)
			Expect(ok).To(BeTrue())
			Expect(got.UserID).To(Equal("alice"))

			got, ok = manager.Get(bob.ID)
			Expect(ok).To(BeTrue())
			Expect(got.UserID).To(Equal("bob"))
		})
	})

	Describe("Get", func() {
		It("should not find an unknown ID", func() {
			_, ok := manager.Get("nope")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should end only the deleted session", func() {
			first := manager.Create("admin")
			second := manager.Create("admin")

			manager.Delete(first.ID)

			_, ok := manager.Get(first.ID)
			Expect(ok).To(BeFalse())
			_, ok = manager.Get(second.ID)
			Expect(ok).To(BeTrue())
		})

		It("should tolerate an unknown ID", func() {
			manager.Delete("nope")
		})
	})
})
