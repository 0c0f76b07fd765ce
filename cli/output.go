package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"catalog/usecase"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printTable(products []usecase.ProductResponse) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%d\t%s\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Currency, p.StockQuantity, p.Status)
	}
	return w.Flush()
}
