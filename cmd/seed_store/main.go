// seed_store importa el catálogo de artículos del almacén desde un CSV y, opcionalmente,
// crea el primer usuario administrador.
//
// Uso:
//
//	go run ./cmd/seed_store -file items.csv [-charset latin1] [-admin-email a@b.edu -admin-password secreto]
//
// Cabecera esperada (solo name es obligatoria):
// name,description,category,unit,minimum_stock,maximum_stock,reorder_level,unit_price,location,opening_stock
// El stock inicial se registra como una transacción de ajuste.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/campus-store/internal/application/auth"
	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/infrastructure/backend"
	"github.com/jhoicas/campus-store/internal/infrastructure/jobs"
	"github.com/jhoicas/campus-store/pkg/config"
	"github.com/jhoicas/campus-store/pkg/logger"
)

func main() {
	file := flag.String("file", "", "ruta del CSV de artículos")
	charset := flag.String("charset", "utf8", "codificación del CSV: utf8 | latin1")
	adminEmail := flag.String("admin-email", "", "email del administrador a crear")
	adminPassword := flag.String("admin-password", "", "contraseña del administrador")
	createdBy := flag.String("created-by", "seed", "usuario registrado como creador de los artículos")
	flag.Parse()

	if *file == "" && *adminEmail == "" {
		fmt.Fprintln(os.Stderr, "Indique -file y/o -admin-email")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_store"})

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backend: %v\n", err)
		os.Exit(1)
	}
	defer be.Close()

	if *adminEmail != "" {
		authUC := auth.NewAuthUseCase(be.Users, auth.JWTConfig{Secret: cfg.JWT.Secret})
		u, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email:    *adminEmail,
			Password: *adminPassword,
			Name:     "Administrador",
			Role:     entity.RoleAdmin,
		})
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			fmt.Printf("Administrador %s ya existe\n", *adminEmail)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
			os.Exit(1)
		default:
			fmt.Printf("Administrador creado: %s (%s)\n", u.Email, u.ID)
		}
	}

	if *file == "" {
		return
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decodeCharset(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	rows, rowErrs, err := parseCatalog(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "Omitida %v\n", e)
	}

	storeCfg := backend.StoreConfig(cfg)
	ledger := store.NewApplyStockTransactionUseCase(be.Runner, nil, jobs.NopNotifier{}, storeCfg, log)
	itemUC := store.NewItemUseCase(be.Runner, be.Repos, ledger, storeCfg)

	created, failed := importRows(ctx, itemUC, rows, *createdBy)
	fmt.Printf("Importados %d artículos, %d con error, %d filas omitidas\n", created, failed, len(rowErrs))
	if failed > 0 {
		os.Exit(1)
	}
}

// itemCreator subconjunto de *store.ItemUseCase usado por la importación.
type itemCreator interface {
	CreateItem(ctx context.Context, in store.CreateItemInput) (*store.CreateItemResult, error)
}

func importRows(ctx context.Context, uc itemCreator, rows []catalogRow, createdBy string) (created, failed int) {
	for _, row := range rows {
		in := row.Input
		in.CreatedBy = createdBy
		res, err := uc.CreateItem(ctx, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "línea %d (%s): %v\n", row.Line, in.Name, err)
			failed++
			continue
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "línea %d (%s): %s\n", row.Line, res.Item.Code, w)
		}
		created++
	}
	return created, failed
}
