package main

import (
	"strconv"

	"github.com/rookgm/storefront/internal/models"
	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(
		newProductsListCmd(a),
		newProductsShowCmd(a),
		newProductsAvailabilityCmd(a),
	)
	return cmd
}

func newProductsListCmd(a *app) *cobra.Command {
	var pq pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.ListProducts(cmd.Context(), pq.query(cmd))
			if err != nil {
				return err
			}
			a.printProducts(page.Content)
			a.printPage(page.PageNo, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pq.register(cmd)
	return cmd
}

func newProductsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PRODUCT_ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			product, err := a.api.Product(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printProducts([]models.Product{*product})
			if product.Description != "" {
				a.printf("\n%s\n", product.Description)
			}
			return nil
		},
	}
}

func newProductsAvailabilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "availability SKU",
		Short: "Show stock available for a SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.api.ProductAvailability(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			available := strconv.Itoa(product.Available())
			if product.Available() == 0 {
				available = warnStyle.Render("out of stock")
			}
			a.printf("%s (%s): %s available\n", product.Name, orZero(product.SKU, args[0]), available)
			return nil
		},
	}
}

func (a *app) printProducts(products []models.Product) {
	if len(products) == 0 {
		a.printf("No products found\n")
		return
	}
	t := newTable("ID", "SKU", "NAME", "PRICE", "AVAILABLE")
	for _, p := range products {
		t.add(strconv.FormatUint(p.ID, 10), orZero(p.SKU, "-"), p.Name, p.Price.StringFixed(2), strconv.Itoa(p.Available()))
	}
	t.render(a.out)
}
