// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

//go:build integration

package workspace_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/collate-app/collate/internal/workspace"
)

var _ = Describe("PageRepository", func() {
	var (
		ctx          context.Context
		collectionID int32
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupCollections(ctx, env.pool)
		collectionID = createTestCollection(ctx, "Notes")
	})

	Describe("Get", func() {
		It("returns a page without content until the body is first written", func() {
			id := createTestPage(ctx, collectionID, "Meeting notes")

			page, err := env.Pages.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Title).To(Equal("Meeting notes"))
			Expect(page.Content).To(BeNil())

			Expect(env.Pages.SaveContent(ctx, workspace.Content{
				PageID: id, Content: "Agenda:\n- budget",
			})).To(Succeed())

			page, err = env.Pages.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Content).NotTo(BeNil())
			Expect(page.Content.Content).To(Equal("Agenda:\n- budget"))
		})

		It("returns ErrNotFound for a missing page", func() {
			_, err := env.Pages.Get(ctx, 999999)
			Expect(err).To(MatchError(workspace.ErrNotFound))
		})
	})

	Describe("SaveContent", func() {
		It("overwrites the body on repeated saves", func() {
			id := createTestPage(ctx, collectionID, "Draft")

			Expect(env.Pages.SaveContent(ctx, workspace.Content{PageID: id, Content: "v1"})).To(Succeed())
			Expect(env.Pages.SaveContent(ctx, workspace.Content{PageID: id, Content: "v2"})).To(Succeed())

			page, err := env.Pages.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Content.Content).To(Equal("v2"))
		})
	})

	Describe("ListPages", func() {
		It("resolves property values per page, leaving missing ones unset", func() {
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)
			rated := createTestPage(ctx, collectionID, "Rated")
			createTestPage(ctx, collectionID, "Unrated")

			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: rated, PropID: rating.ID, Value: workspace.IntValue(4),
			})).To(Succeed())

			pages, props, err := env.Pages.ListPages(ctx, collectionID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(props).To(HaveLen(1))
			Expect(pages).To(HaveLen(2))

			byTitle := map[string]workspace.Page{}
			for _, p := range pages {
				byTitle[p.Title] = p
			}
			Expect(byTitle["Rated"].Props[0].IsSet()).To(BeTrue())
			Expect(*byTitle["Rated"].Props[0].Value).To(Equal(workspace.IntValue(4)))
			Expect(byTitle["Unrated"].Props[0].IsSet()).To(BeFalse())
		})

		It("orders pages by the configured sort property", func() {
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)
			for i, title := range []string{"Middle", "Best", "Worst"} {
				id := createTestPage(ctx, collectionID, title)
				values := []int64{3, 5, 1}
				Expect(env.PropVals.Save(ctx, workspace.PropVal{
					PageID: id, PropID: rating.ID, Value: workspace.IntValue(values[i]),
				})).To(Succeed())
			}

			sort := workspace.SortDesc
			Expect(env.Collections.SaveSort(ctx, workspace.CollectionSort{
				CollectionID: collectionID,
				PropID:       &rating.ID,
				Sort:         &sort,
			})).To(Succeed())

			pages, _, err := env.Pages.ListPages(ctx, collectionID, 0)
			Expect(err).NotTo(HaveOccurred())

			titles := make([]string, len(pages))
			for i, p := range pages {
				titles[i] = p.Title
			}
			Expect(titles).To(Equal([]string{"Best", "Middle", "Worst"}))
		})

		It("serves results in pages of one hundred", func() {
			for i := range 105 {
				createTestPage(ctx, collectionID, fmt.Sprintf("Page %03d", i))
			}

			first, _, err := env.Pages.ListPages(ctx, collectionID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(HaveLen(100))

			second, _, err := env.Pages.ListPages(ctx, collectionID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(HaveLen(5))
		})
	})

	Describe("Create and Save", func() {
		It("inserts and retitles a page", func() {
			Expect(env.Pages.Create(ctx, collectionID, "Untitled")).To(Succeed())

			pages, _, err := env.Pages.ListPages(ctx, collectionID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(1))

			page := pages[0]
			page.Title = "Shopping list"
			Expect(env.Pages.Save(ctx, page)).To(Succeed())

			got, err := env.Pages.Get(ctx, page.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Shopping list"))
		})
	})
})

var _ = Describe("CollectionRepository", func() {
	var (
		ctx          context.Context
		collectionID int32
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupCollections(ctx, env.pool)
		collectionID = createTestCollection(ctx, "Projects")
	})

	It("round-trips the listing sort", func() {
		rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)

		_, err := env.Collections.GetSort(ctx, collectionID)
		Expect(err).To(MatchError(workspace.ErrNotFound))

		sort := workspace.SortAsc
		Expect(env.Collections.SaveSort(ctx, workspace.CollectionSort{
			CollectionID: collectionID,
			PropID:       &rating.ID,
			Sort:         &sort,
		})).To(Succeed())

		got, err := env.Collections.GetSort(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*got.PropID).To(Equal(rating.ID))
		Expect(*got.Sort).To(Equal(workspace.SortAsc))

		// Clearing both columns disables sorting again.
		Expect(env.Collections.SaveSort(ctx, workspace.CollectionSort{
			CollectionID: collectionID,
		})).To(Succeed())

		_, err = env.Collections.GetSort(ctx, collectionID)
		Expect(err).To(MatchError(workspace.ErrNotFound))
	})

	It("returns the collection name", func() {
		name, err := env.Collections.GetName(ctx, collectionID)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("Projects"))
	})
})
