package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/application/usecase"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

var importCmd = &cobra.Command{
	Use:   "import-products <archivo.csv>",
	Short: "Importa productos desde un CSV exportado de otro sistema de punto de venta",
	Long: `Columnas (con encabezado): codigo, nombre, precio, costo, stock, minimo.
Los importes aceptan coma decimal y punto de miles (1.234,50). Los códigos ya
existentes se informan y se saltean.

Las planillas exportadas desde Excel en Windows suelen venir en Windows-1252:
usar --encoding windows1252 (o latin1) para que los acentos lleguen bien.`,
	Example: `  posctl import-products --cuit 20-12345678-6 productos.csv
  posctl import-products --cuit 20123456786 --encoding windows1252 --delimiter ';' lista.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("cuit", "", "CUIT de la empresa destino (obligatorio)")
	importCmd.Flags().String("encoding", "utf8", "codificación del archivo: utf8, latin1 o windows1252")
	importCmd.Flags().String("delimiter", ";", "separador de columnas")
	importCmd.Flags().Bool("dry-run", false, "solo valida el archivo, no escribe")
	_ = importCmd.MarkFlagRequired("cuit")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cuit, _ := cmd.Flags().GetString("cuit")
	encoding, _ := cmd.Flags().GetString("encoding")
	delimiter, _ := cmd.Flags().GetString("delimiter")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if err := afip.ValidateCUIT(cuit); err != nil {
		return err
	}
	if len([]rune(delimiter)) != 1 {
		return fmt.Errorf("el separador debe ser un único carácter")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()

	products, err := readProducts(f, encoding, []rune(delimiter)[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d productos leídos de %s\n", len(products), args[0])
	if dryRun {
		return nil
	}

	e, err := loadEnv(cmd, "import")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := e.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	company, err := repos.Companies.GetByCUIT(ctx, afip.NormalizeCUIT(cuit))
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("no hay empresa con CUIT %s", afip.FormatCUIT(cuit))
	}
	tc := domain.TenantContext{CompanyID: company.ID, Role: entity.RoleAdmin}
	uc := usecase.NewProductUseCase(postgres.NewTxRunner(pool), repos.Products, repos.Stock, repos.Categories, e.log)

	var created, skipped int
	for _, p := range products {
		if _, err := uc.Create(ctx, tc, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInvalidInput) {
				skipped++
				fmt.Fprintf(out, "  salteado %s: %v\n", p.Code, err)
				continue
			}
			return err
		}
		created++
	}
	e.log.Info().Str("company_id", company.ID).Int("creados", created).Int("salteados", skipped).Msg("importación terminada")
	fmt.Fprintf(out, "%d creados, %d salteados\n", created, skipped)
	return nil
}

// readProducts decodifica el CSV en altas de producto. Las filas vacías se ignoran;
// cualquier valor inválido corta la lectura indicando la línea.
func readProducts(r io.Reader, encoding string, comma rune) ([]dto.CreateProductRequest, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación %q no soportada (utf8, latin1, windows1252)", encoding)
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	for _, required := range []string{"codigo", "nombre", "precio"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if field(rec, "codigo") == "" && field(rec, "nombre") == "" {
			continue
		}
		p := dto.CreateProductRequest{
			Code: field(rec, "codigo"),
			Name: field(rec, "nombre"),
		}
		amounts := []struct {
			col string
			dst *decimal.Decimal
		}{
			{"precio", &p.Price},
			{"costo", &p.Cost},
			{"stock", &p.InitialStock},
			{"minimo", &p.MinQuantity},
		}
		for _, a := range amounts {
			v, err := parseAmount(field(rec, a.col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, a.col, err)
			}
			*a.dst = v
		}
		out = append(out, p)
	}
	return out, nil
}

// parseAmount interpreta importes en formato local ("1.234,50", "2.500") o con punto
// decimal ("1234.50"). Un único punto seguido de exactamente tres dígitos se toma como
// separador de miles. Vacío es cero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1, thousandsOnly(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe inválido %q", s)
	}
	return d, nil
}

func thousandsOnly(s string) bool {
	i := strings.IndexByte(s, '.')
	return i > 0 && len(s)-i-1 == 3
}
