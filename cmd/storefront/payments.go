package main

import (
	"github.com/rookgm/storefront/internal/models"
	"github.com/spf13/cobra"
)

func newPaymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect and refund payments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list ORDER_ID",
			Short: "List payments of an order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				payments, err := a.api.PaymentsByOrder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.printPayments(payments)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show PAYMENT_REF",
			Short: "Show a payment (payment administrators)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				payment, err := a.api.Payment(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.printPayments([]models.Payment{*payment})
				if payment.RefundReason != "" {
					a.printf("refund: %s (%s)\n", payment.RefundReason, payment.RefundStatus)
				}
				return nil
			},
		},
		newPaymentsRefundCmd(a),
	)
	return cmd
}

func newPaymentsRefundCmd(a *app) *cobra.Command {
	var reason, key string

	cmd := &cobra.Command{
		Use:   "refund PAYMENT_REF",
		Short: "Refund a completed payment (payment administrators)",
		Long: "Refund a completed payment. Every call sends an idempotency key, " +
			"pass --key to safely repeat a refund that may already have gone through.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payment, err := a.api.RefundPayment(cmd.Context(), args[0], reason, key)
			if err != nil {
				return err
			}
			a.printf("Payment %s is %s\n", payment.PaymentReference, status(payment.Status))
			return nil
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "refund reason")
	cmd.Flags().StringVar(&key, "key", "", "idempotency key, generated when empty")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func (a *app) printPayments(payments []models.Payment) {
	if len(payments) == 0 {
		a.printf("No payments\n")
		return
	}
	t := newTable("REFERENCE", "STATUS", "AMOUNT", "METHOD", "UPDATED")
	for _, p := range payments {
		method := "-"
		if p.Method != nil {
			method = p.Method.Type
			if p.Method.Last4 != "" {
				method += " *" + p.Method.Last4
			}
		}
		t.add(p.PaymentReference, status(p.Status), p.Amount.StringFixed(2)+" "+p.Currency, method, orZero(p.UpdatedAt, "-"))
	}
	t.render(a.out)
}
