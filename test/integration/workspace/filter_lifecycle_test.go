// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

//go:build integration

package workspace_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/collate-app/collate/internal/workspace"
)

var _ = Describe("Filter lifecycle", func() {
	var (
		ctx          context.Context
		collectionID int32
		priority     workspace.Prop
	)

	pageTitles := func(pages []workspace.Page) []string {
		titles := make([]string, len(pages))
		for i, p := range pages {
			titles[i] = p.Title
		}
		return titles
	}

	BeforeEach(func() {
		ctx = context.Background()
		cleanupCollections(ctx, env.pool)

		collectionID = createTestCollection(ctx, "Tasks")
		priority = createTestProperty(ctx, collectionID, "Priority", workspace.TypeInt, 1)

		low := createTestPage(ctx, collectionID, "Water plants")
		high := createTestPage(ctx, collectionID, "File taxes")
		createTestPage(ctx, collectionID, "Someday maybe")

		Expect(env.PropVals.Save(ctx, workspace.PropVal{
			PageID: low, PropID: priority.ID, Value: workspace.IntValue(3),
		})).To(Succeed())
		Expect(env.PropVals.Save(ctx, workspace.PropVal{
			PageID: high, PropID: priority.ID, Value: workspace.IntValue(20),
		})).To(Succeed())
	})

	It("narrows the page listing from creation through deletion", func() {
		// Creation applies the type default range (0, 10).
		f, err := env.Service.CreateFilter(ctx, priority.ID, workspace.FilterInRange)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.ID).NotTo(BeZero())

		start, end, ok := f.Value.Range()
		Expect(ok).To(BeTrue())
		Expect(start).To(Equal(workspace.IntValue(0)))
		Expect(end).To(Equal(workspace.IntValue(10)))

		pages, _, err := env.Pages.ListPages(ctx, collectionID, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(pageTitles(pages)).To(ConsistOf("Water plants"))

		// Widening the range swaps which page qualifies. Bounds are
		// exclusive, so 3 falls out at a start of 5.
		f.Value, err = workspace.NewRange(workspace.IntValue(5), workspace.IntValue(50))
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Filters.Save(ctx, f)).To(Succeed())

		filters, err := env.Filters.List(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(filters).To(HaveLen(1))
		start, end, ok = filters[0].Value.Range()
		Expect(ok).To(BeTrue())
		Expect(start).To(Equal(workspace.IntValue(5)))
		Expect(end).To(Equal(workspace.IntValue(50)))

		pages, _, err = env.Pages.ListPages(ctx, collectionID, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(pageTitles(pages)).To(ConsistOf("File taxes"))

		// Deleting the filter restores the unfiltered listing, including
		// the page with no priority set.
		Expect(env.Filters.Delete(ctx, f)).To(Succeed())

		filters, err = env.Filters.List(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(filters).To(BeEmpty())

		pages, _, err = env.Pages.ListPages(ctx, collectionID, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(pageTitles(pages)).To(ConsistOf("Water plants", "File taxes", "Someday maybe"))
	})

	It("frees and reclaims filter capacity", func() {
		ok, err := env.Filters.HasCapacity(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		f, err := env.Service.CreateFilter(ctx, priority.ID, workspace.FilterGt)
		Expect(err).NotTo(HaveOccurred())

		ok, err = env.Filters.HasCapacity(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		// The only property is taken, so a second filter is refused.
		_, err = env.Service.CreateFilter(ctx, priority.ID, workspace.FilterLt)
		Expect(err).To(HaveOccurred())
		Expect(err).To(MatchError(ContainSubstring("no filter capacity")))

		Expect(env.Filters.Delete(ctx, f)).To(Succeed())

		ok, err = env.Filters.HasCapacity(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("rejects range predicates on boolean properties before storage", func() {
		done := createTestProperty(ctx, collectionID, "Done", workspace.TypeBool, 2)

		_, err := env.Service.CreateFilter(ctx, done.ID, workspace.FilterInRange)
		Expect(err).To(MatchError(workspace.ErrUnsupportedCombination))

		filters, err := env.Filters.List(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(filters).To(BeEmpty())
	})

	It("lists filters across every relation for one collection", func() {
		due := createTestProperty(ctx, collectionID, "Due", workspace.TypeDate, 2)
		done := createTestProperty(ctx, collectionID, "Done", workspace.TypeBool, 3)

		intFilter, err := env.Service.CreateFilter(ctx, priority.ID, workspace.FilterGt)
		Expect(err).NotTo(HaveOccurred())
		dateFilter, err := env.Service.CreateFilter(ctx, due.ID, workspace.FilterInRange)
		Expect(err).NotTo(HaveOccurred())
		boolFilter, err := env.Service.CreateFilter(ctx, done.ID, workspace.FilterEq)
		Expect(err).NotTo(HaveOccurred())

		filters, err := env.Filters.List(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())

		keys := make([]workspace.FilterKey, len(filters))
		for i, f := range filters {
			keys[i] = f.Key()
		}
		Expect(keys).To(ConsistOf(intFilter.Key(), dateFilter.Key(), boolFilter.Key()))
	})

	It("retrieves a filter by its composite key", func() {
		created, err := env.Service.CreateFilter(ctx, priority.ID, workspace.FilterNotInRange)
		Expect(err).NotTo(HaveOccurred())

		got, err := env.Filters.Get(ctx, created.Key())
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(created))

		// Same id but wrong relation misses.
		_, err = env.Filters.Get(ctx, workspace.FilterKey{
			ID: created.ID, ValueType: workspace.TypeInt, Shape: workspace.ShapeSingle,
		})
		Expect(err).To(MatchError(workspace.ErrNotFound))
	})
})
