package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"github.com/spf13/cobra"
)

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List product categories",
		Annotations: route("/"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.app.Client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return c.show(cats, func() error {
				rows := make([][]string, 0, len(cats))
				for _, cat := range cats {
					rows = append(rows, []string{cat.ID, cat.Name, cat.ParentID})
				}
				return c.table([]string{"ID", "NAME", "PARENT"}, rows)
			})
		},
	}
}

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalogue",
	}

	var q shopsdk.ProductQuery
	list := &cobra.Command{
		Use:         "list",
		Short:       "List products",
		Annotations: route("/products"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.app.Client.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.show(page, func() error {
				rows := make([][]string, 0, len(page.Items))
				for _, p := range page.Items {
					rows = append(rows, []string{
						p.ID, p.Name, money(p.EffectivePrice()), strings.Join(p.Sizes, ","), strconv.Itoa(p.Stock),
					})
				}
				if err := c.table([]string{"ID", "NAME", "PRICE", "SIZES", "STOCK"}, rows); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "\npage %d of %d, %d products\n", page.Page, page.TotalPages, page.Total)
				return nil
			})
		},
	}
	list.Flags().StringVar(&q.Keyword, "keyword", "", "Search text")
	list.Flags().StringVar(&q.CategoryID, "category", "", "Category id")
	list.Flags().Float64Var(&q.MinPrice, "min-price", 0, "Lowest price")
	list.Flags().Float64Var(&q.MaxPrice, "max-price", 0, "Highest price")
	list.Flags().StringVar(&q.Size, "size", "", "Size")
	list.Flags().StringVar(&q.Sort, "sort", "", "Sort order, for example price,asc")
	list.Flags().IntVar(&q.Page, "page", 0, "Page number")
	list.Flags().IntVar(&q.PageSize, "page-size", 0, "Products per page")

	show := &cobra.Command{
		Use:         "show <id>",
		Short:       "Show one product",
		Annotations: route("/products"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.show(p, func() error {
				fmt.Fprintf(c.out, "%s\n%s\n\nPrice: %s\nSizes: %s\nStock: %d\n",
					p.Name, p.Description, money(p.EffectivePrice()), strings.Join(p.Sizes, ", "), p.Stock)
				return nil
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart, kept locally and mirrored to your account when signed in",
	}

	var key domain.CartKey
	keyFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&key.Size, "size", "", "Size")
		cmd.Flags().StringVar(&key.StoreID, "store", "", "Store id")
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "Show the cart",
		Annotations: route("/cart"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart, err := c.app.Cart.List(cmd.Context())
			if err != nil {
				return err
			}
			return c.printCart(cart)
		},
	}

	var item domain.CartItem
	add := &cobra.Command{
		Use:         "add <product-id>",
		Short:       "Add a product",
		Annotations: route("/cart"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item.ProductID = args[0]
			item.Size, item.StoreID = key.Size, key.StoreID

			cart, err := c.app.Cart.Add(cmd.Context(), item)
			if err != nil {
				return err
			}
			return c.printCart(cart)
		},
	}
	keyFlags(add)
	add.Flags().IntVar(&item.Quantity, "qty", 1, "Quantity")
	add.Flags().StringVar(&item.Name, "name", "", "Product name shown in the cart")
	add.Flags().Float64Var(&item.Price, "price", 0, "Unit price shown in the cart")

	update := &cobra.Command{
		Use:         "update <product-id> <quantity>",
		Short:       "Change a quantity, 0 removes the line",
		Annotations: route("/cart"),
		Args:        cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			key.ProductID = args[0]

			cart, err := c.app.Cart.SetQuantity(cmd.Context(), key, qty)
			if err != nil {
				return err
			}
			return c.printCart(cart)
		},
	}
	keyFlags(update)

	remove := &cobra.Command{
		Use:         "remove <product-id>",
		Short:       "Remove a line",
		Annotations: route("/cart"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key.ProductID = args[0]

			cart, err := c.app.Cart.Remove(cmd.Context(), key)
			if err != nil {
				return err
			}
			return c.printCart(cart)
		},
	}
	keyFlags(remove)

	clearCart := &cobra.Command{
		Use:         "clear",
		Short:       "Empty the cart",
		Annotations: route("/cart"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Cart.Clear(cmd.Context())
		},
	}

	sync := &cobra.Command{
		Use:         "sync",
		Short:       "Merge the local cart with your account's cart",
		Annotations: route("/cart"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart, err := c.app.Cart.Sync(cmd.Context())
			if err != nil {
				return err
			}
			return c.printCart(cart)
		},
	}

	cmd.AddCommand(list, add, update, remove, clearCart, sync)
	return cmd
}

func (c *cli) printCart(cart domain.Cart) error {
	return c.show(cart, func() error {
		if cart.IsEmpty() {
			fmt.Fprintln(c.out, "Your cart is empty")
			return nil
		}

		rows := make([][]string, 0, len(cart.Items))
		for _, it := range cart.Items {
			rows = append(rows, []string{
				it.ProductID, it.Name, it.Size, it.StoreID, strconv.Itoa(it.Quantity), money(it.Price),
			})
		}
		if err := c.table([]string{"PRODUCT", "NAME", "SIZE", "STORE", "QTY", "PRICE"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\n%d items, subtotal %s\n", cart.Count(), money(cart.Subtotal()))
		return nil
	})
}

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and track orders",
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List your orders",
		Annotations: route("/orders"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			orders, err := c.app.Client.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			return c.show(orders, func() error {
				rows := make([][]string, 0, len(orders))
				for _, o := range orders {
					rows = append(rows, []string{
						o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, o.PaymentMethod, money(o.Total),
					})
				}
				return c.table([]string{"ID", "DATE", "STATUS", "PAYMENT", "TOTAL"}, rows)
			})
		},
	}

	show := &cobra.Command{
		Use:         "show <id>",
		Short:       "Show one order",
		Annotations: route("/orders"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			o, err := c.app.Client.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printOrder(o)
		},
	}

	var req service.CheckoutRequest
	checkout := &cobra.Command{
		Use:         "checkout",
		Short:       "Order everything in the cart",
		Annotations: route("/cart"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.PaymentMethod = strings.ToUpper(req.PaymentMethod)

			res, err := c.app.Checkout.Checkout(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(res)
			}
			if err := c.printOrder(res.Order); err != nil {
				return err
			}
			if res.PaymentURL != "" {
				fmt.Fprintf(c.out, "\nPay at: %s\n", res.PaymentURL)
			}
			return nil
		},
	}
	checkout.Flags().StringVar(&req.AddressID, "address", "", "Delivery address id")
	checkout.Flags().StringVar(&req.PaymentMethod, "payment", shopsdk.PaymentCOD, "COD or VNPAY")
	checkout.Flags().StringVar(&req.Note, "note", "", "Note for the shop")

	cancel := &cobra.Command{
		Use:         "cancel <id>",
		Short:       "Cancel an order",
		Annotations: route("/orders"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			o, err := c.app.Client.CancelOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printOrder(o)
		},
	}

	cmd.AddCommand(list, show, checkout, cancel)
	return cmd
}

func (c *cli) printOrder(o *shopsdk.Order) error {
	return c.show(o, func() error {
		fmt.Fprintf(c.out, "Order %s  %s  %s\n\n", o.ID, o.Status, o.CreatedAt.Format("2006-01-02 15:04"))

		rows := make([][]string, 0, len(o.Items))
		for _, it := range o.Items {
			rows = append(rows, []string{it.ProductID, it.Name, it.Size, strconv.Itoa(it.Quantity), money(it.Price)})
		}
		if err := c.table([]string{"PRODUCT", "NAME", "SIZE", "QTY", "PRICE"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\nTotal %s, paid by %s\n", money(o.Total), o.PaymentMethod)
		return nil
	})
}

// enter runs the route guard for the command's page.
func (c *cli) enter(cmd *cobra.Command) error {
	_, err := c.app.Guard.Enter(cmd.Context(), cmd.Annotations[routeKey])
	return err
}
