package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"dashflow-service/internal/dashboard/api"
	"dashflow-service/internal/dashboard/store"
	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/member"
	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/domain/product"

	"github.com/spf13/cobra"
)

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewClientStore(api.NewTable[client.Client](s.client, "/api/v1/clients"), s.logger)
			if err := st.List(cmd.Context()); err != nil {
				return err
			}

			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOUNTRY\tSTATUS")
			for _, c := range st.Items() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Country, c.Status)
			}
			return w.Flush()
		},
	})

	var req client.CreateClientRequest
	addCmd := &cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewClientStore(api.NewTable[client.Client](s.client, "/api/v1/clients"), s.logger)
			req.Name, req.Email = args[0], args[1]
			if err := st.Create(cmd.Context(), &req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client %q created\n", req.Name)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&req.Country, "country", "", "country")
	addCmd.Flags().StringVar(&req.Status, "status", "", "Active or Inactive")
	cmd.AddCommand(addCmd)

	var editName, editEmail, editPhone, editCountry, editStatus string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewClientStore(api.NewTable[client.Client](s.client, "/api/v1/clients"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			patch := client.UpdateClientRequest{
				Name:    changedString(cmd, "name", &editName),
				Email:   changedString(cmd, "email", &editEmail),
				Phone:   changedString(cmd, "phone", &editPhone),
				Country: changedString(cmd, "country", &editCountry),
				Status:  changedString(cmd, "status", &editStatus),
			}
			if patch == (client.UpdateClientRequest{}) {
				return fmt.Errorf("nothing to change, pass at least one flag")
			}
			if err := st.Update(cmd.Context(), id, &patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client %d updated\n", id)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "display name")
	editCmd.Flags().StringVar(&editEmail, "email", "", "email address")
	editCmd.Flags().StringVar(&editPhone, "phone", "", "phone number")
	editCmd.Flags().StringVar(&editCountry, "country", "", "country")
	editCmd.Flags().StringVar(&editStatus, "status", "", "Active or Inactive")
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewClientStore(api.NewTable[client.Client](s.client, "/api/v1/clients"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client %d deleted\n", id)
			return nil
		},
	})

	return cmd
}

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewProductStore(api.NewTable[product.Product](s.client, "/api/v1/products"), s.logger)
			if err := st.List(cmd.Context()); err != nil {
				return err
			}

			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
			for _, p := range st.Items() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Category, p.Price, p.Stock, p.Status)
			}
			return w.Flush()
		},
	})

	var req product.CreateProductRequest
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewProductStore(api.NewTable[product.Product](s.client, "/api/v1/products"), s.logger)
			req.Name = args[0]
			if err := st.Create(cmd.Context(), &req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %q created\n", req.Name)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.Category, "category", "", "category")
	addCmd.Flags().Float64Var(&req.Price, "price", 0, "unit price")
	addCmd.Flags().IntVar(&req.Stock, "stock", 0, "stock on hand")
	cmd.AddCommand(addCmd)

	var (
		editName, editCategory, editStatus string
		editPrice                          float64
		editStock                          int
	)
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewProductStore(api.NewTable[product.Product](s.client, "/api/v1/products"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			patch := product.UpdateProductRequest{
				Name:     changedString(cmd, "name", &editName),
				Category: changedString(cmd, "category", &editCategory),
				Status:   changedString(cmd, "status", &editStatus),
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &editPrice
			}
			if cmd.Flags().Changed("stock") {
				patch.Stock = &editStock
			}
			if patch == (product.UpdateProductRequest{}) {
				return fmt.Errorf("nothing to change, pass at least one flag")
			}
			if err := st.Update(cmd.Context(), id, &patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d updated\n", id)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "product name")
	editCmd.Flags().StringVar(&editCategory, "category", "", "category")
	editCmd.Flags().Float64Var(&editPrice, "price", 0, "unit price")
	editCmd.Flags().IntVar(&editStock, "stock", 0, "stock on hand")
	editCmd.Flags().StringVar(&editStatus, "status", "", "Available or Out of Stock")
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewProductStore(api.NewTable[product.Product](s.client, "/api/v1/products"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d deleted\n", id)
			return nil
		},
	})

	return cmd
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewOrderStore(api.NewTable[order.Order](s.client, "/api/v1/orders"), s.logger)
			if err := st.List(cmd.Context()); err != nil {
				return err
			}

			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tREFERENCE\tCLIENT\tITEMS\tTOTAL\tSTATUS\tPLACED")
			for _, o := range st.Items() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\t%s\n",
					o.ID, o.Reference, o.ClientName, len(o.Items), o.Total, o.Status, o.PlacedOn.Format("2006-01-02"))
			}
			return w.Flush()
		},
	})

	var (
		clientName string
		status     string
		rawItems   []string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Place an order",
		Long: "Places an order for --client with one or more --item name:qty[:price] line items.\n" +
			"When the price is omitted it is taken from the product's current price.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())

			items, err := parseLineItems(rawItems)
			if err != nil {
				return err
			}

			form := store.NewOrderForm(
				api.NewTable[client.Client](s.client, "/api/v1/clients"),
				api.NewTable[product.Product](s.client, "/api/v1/products"),
			)
			data, err := form.Load(cmd.Context())
			if err != nil {
				return err
			}

			req, err := data.Compose(clientName, items, status)
			if err != nil {
				return err
			}

			st := store.NewOrderStore(api.NewTable[order.Order](s.client, "/api/v1/orders"), s.logger)
			if err := st.Create(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order for %q placed, total %.2f\n",
				clientName, order.ComputeTotal(req.Items))
			return nil
		},
	}
	addCmd.Flags().StringVar(&clientName, "client", "", "client display name")
	addCmd.Flags().StringVar(&status, "status", "", "Paid or Pending")
	addCmd.Flags().StringArrayVar(&rawItems, "item", nil, "line item as name:qty[:price] (repeatable)")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewOrderStore(api.NewTable[order.Order](s.client, "/api/v1/orders"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d cancelled\n", id)
			return nil
		},
	})

	return cmd
}

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage team members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List team members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewMemberStore(api.NewTable[member.TeamMember](s.client, "/api/v1/members"), s.logger)
			if err := st.List(cmd.Context()); err != nil {
				return err
			}

			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tSTATUS")
			for _, m := range st.Items() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Username, m.Name, m.Email, m.Role, m.Status)
			}
			return w.Flush()
		},
	})

	var req member.CreateMemberRequest
	addCmd := &cobra.Command{
		Use:   "add <username> <email>",
		Short: "Add a team member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewMemberStore(api.NewTable[member.TeamMember](s.client, "/api/v1/members"), s.logger)
			req.Username, req.Email = args[0], args[1]
			if err := st.Create(cmd.Context(), &req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "member %q created\n", req.Username)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.Name, "name", "", "display name")
	addCmd.Flags().StringVar(&req.Role, "role", "", "Admin, Manager, Analyst or Operator")
	addCmd.Flags().StringVar(&req.Status, "status", "", "Active or Suspended")
	cmd.AddCommand(addCmd)

	var editUsername, editName, editEmail, editRole, editStatus string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewMemberStore(api.NewTable[member.TeamMember](s.client, "/api/v1/members"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			patch := member.UpdateMemberRequest{
				Username: changedString(cmd, "username", &editUsername),
				Name:     changedString(cmd, "name", &editName),
				Email:    changedString(cmd, "email", &editEmail),
				Role:     changedString(cmd, "role", &editRole),
				Status:   changedString(cmd, "status", &editStatus),
			}
			if patch == (member.UpdateMemberRequest{}) {
				return fmt.Errorf("nothing to change, pass at least one flag")
			}
			if err := st.Update(cmd.Context(), id, &patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "member %d updated\n", id)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editUsername, "username", "", "login username")
	editCmd.Flags().StringVar(&editName, "name", "", "display name")
	editCmd.Flags().StringVar(&editEmail, "email", "", "email address")
	editCmd.Flags().StringVar(&editRole, "role", "", "Admin, Manager, Analyst or Operator")
	editCmd.Flags().StringVar(&editStatus, "status", "", "Active or Suspended")
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())
			st := store.NewMemberStore(api.NewTable[member.TeamMember](s.client, "/api/v1/members"), s.logger)
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "member %d deleted\n", id)
			return nil
		},
	})

	return cmd
}

// changedString returns the flag's value only when the user set it, so an
// untouched flag stays out of the patch.
func changedString(cmd *cobra.Command, name string, val *string) *string {
	if cmd.Flags().Changed(name) {
		return val
	}
	return nil
}

// parseLineItems turns name:qty[:price] strings into order line items. An
// omitted price is left zero for the order form to fill from the product.
func parseLineItems(raw []string) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, fmt.Errorf("invalid item %q, want name:qty[:price]", entry)
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q", entry)
		}
		var price float64
		if len(parts) == 3 {
			price, err = strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid price in %q", entry)
			}
		}
		items = append(items, order.LineItem{ProductName: parts[0], Qty: qty, UnitPrice: price})
	}
	return items, nil
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}
