package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"catalog/domain"
	"catalog/usecase"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func parsePrice(s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return &d, nil
}

func init() {
	// create
	var name, description, price, currency string
	var stock int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name required")
			}
			req := usecase.CreateProductRequest{
				Name:         name,
				Description:  description,
				Currency:     currency,
				InitialStock: stock,
			}
			if price != "" {
				p, err := parsePrice(price)
				if err != nil {
					return err
				}
				req.Price = p
			}
			start := time.Now()
			resp, err := app.Catalog.Create.Execute(cmd.Context(), req)
			if err != nil {
				slog.Error("create failed", "name", name, "error", err)
				return err
			}
			slog.Debug("create finished", "product_id", resp.ID, "duration_ms", time.Since(start).Milliseconds())
			return printJSON(resp)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "name")
	createCmd.Flags().StringVar(&description, "description", "", "description")
	createCmd.Flags().StringVar(&price, "price", "", "price, e.g. 999.99")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "ISO-4217 currency code")
	createCmd.Flags().IntVar(&stock, "stock", 0, "initial stock quantity")
	rootCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Catalog.Get.Execute(cmd.Context(), args[0])
			if err != nil {
				if domain.IsEntityNotFound(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return nil
				}
				return err
			}
			return printJSON(resp)
		},
	}
	rootCmd.AddCommand(getCmd)

	// update
	var uName, uDescription, uPrice, uCurrency string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product's name, description or price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			current, err := app.Catalog.Get.Execute(ctx, id)
			if err != nil {
				return err
			}
			resp := current

			if cmd.Flags().Changed("name") || cmd.Flags().Changed("description") {
				req := usecase.UpdateProductRequest{Name: current.Name, Description: current.Description}
				if cmd.Flags().Changed("name") {
					req.Name = uName
				}
				if cmd.Flags().Changed("description") {
					req.Description = uDescription
				}
				if resp, err = app.Catalog.Update.Execute(ctx, id, req); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("price") {
				p, err := parsePrice(uPrice)
				if err != nil {
					return err
				}
				resp, err = app.Catalog.ChangePrice.Execute(ctx, id, usecase.ChangePriceRequest{Price: p, Currency: uCurrency})
				if err != nil {
					return err
				}
			}
			return printJSON(resp)
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "name")
	updateCmd.Flags().StringVar(&uDescription, "description", "", "description")
	updateCmd.Flags().StringVar(&uPrice, "price", "", "new price")
	updateCmd.Flags().StringVar(&uCurrency, "currency", "", "currency of the new price (defaults to the current one)")
	rootCmd.AddCommand(updateCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List active products",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Catalog.List.Execute(cmd.Context())
			if err != nil {
				return err
			}
			if lOutput == "json" {
				return printJSON(out)
			}
			return printTable(out)
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format: table|json")
	rootCmd.AddCommand(listCmd)

	// search
	var sOutput string
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search products of any status by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			out, err := app.Catalog.Search.Execute(cmd.Context(), query)
			if err != nil {
				return err
			}
			if sOutput == "json" {
				return printJSON(out)
			}
			return printTable(out)
		},
	}
	searchCmd.Flags().StringVar(&sOutput, "output", "", "output format: table|json")
	rootCmd.AddCommand(searchCmd)

	// price
	var pCurrency string
	priceCmd := &cobra.Command{
		Use:   "price <id> <amount>",
		Short: "Change a product's price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePrice(args[1])
			if err != nil {
				return err
			}
			resp, err := app.Catalog.ChangePrice.Execute(cmd.Context(), args[0], usecase.ChangePriceRequest{Price: p, Currency: pCurrency})
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	priceCmd.Flags().StringVar(&pCurrency, "currency", "", "currency (defaults to the current one)")
	rootCmd.AddCommand(priceCmd)

	// stock
	var add, remove int
	stockCmd := &cobra.Command{
		Use:   "stock <id> --add N | --remove N",
		Short: "Add or remove stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			added, removed := cmd.Flags().Changed("add"), cmd.Flags().Changed("remove")
			if added == removed {
				return errors.New("exactly one of --add or --remove required")
			}
			delta := add
			if removed {
				delta = -remove
			}
			resp, err := app.Catalog.AdjustStock.Execute(cmd.Context(), args[0], usecase.AdjustStockRequest{Delta: delta})
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	stockCmd.Flags().IntVar(&add, "add", 0, "quantity to add")
	stockCmd.Flags().IntVar(&remove, "remove", 0, "quantity to remove")
	rootCmd.AddCommand(stockCmd)

	// status
	statusCmd := &cobra.Command{
		Use:       "status <id> <ACTIVE|INACTIVE|DISCONTINUED>",
		Short:     "Change a product's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.StatusActive), string(domain.StatusInactive), string(domain.StatusDiscontinued)},
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Catalog.ChangeStatus.Execute(cmd.Context(), args[0], usecase.ChangeStatusRequest{Status: args[1]})
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	rootCmd.AddCommand(statusCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Printf("Delete %s? (y/N): ", args[0])
				var resp string
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Println("aborted")
					return nil
				}
			}
			if err := app.Catalog.Delete.Execute(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)

	// discount
	var percentage int
	discountCmd := &cobra.Command{
		Use:   "discount <id> --percentage N",
		Short: "Quote a discounted price without changing the product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := app.Catalog.Discount.Execute(cmd.Context(), args[0], percentage)
			if err != nil {
				return err
			}
			return printJSON(quote)
		},
	}
	discountCmd.Flags().IntVar(&percentage, "percentage", 0, "discount percentage (0-50)")
	_ = discountCmd.MarkFlagRequired("percentage")
	rootCmd.AddCommand(discountCmd)

	// events
	eventsCmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Show the events recorded for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Events.ForAggregate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
	rootCmd.AddCommand(eventsCmd)
}
