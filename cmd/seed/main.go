// seed precarga las cuentas demo en el almacenamiento configurado (STORAGE_DRIVER).
//
// Uso: go run ./cmd/seed [-reset-permisos]
// Con -reset-permisos además elimina la sobrescritura de permisos (vuelven los valores por defecto).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/infrastructure/kvstate"
	"github.com/jhoicas/panel-admin/internal/infrastructure/seed"
	"github.com/jhoicas/panel-admin/internal/infrastructure/storage"
	"github.com/jhoicas/panel-admin/pkg/config"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

func main() {
	resetPerms := flag.Bool("reset-permisos", false, "restablecer los permisos por defecto")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	kv, closeStore, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	users := kvstate.NewUserRepository(kv)
	sessions := session.NewManager(users, kvstate.NewSessionRepository(kv), log)
	n, err := seed.Run(ctx, users, sessions, seed.DemoUsers(), log.Component("seed"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cuentas demo creadas: %d\n", n)

	if *resetPerms {
		perms := permission.NewStore(kvstate.NewPermissionRepository(kv), log,
			permission.WithAdminLock(cfg.RBAC.LockAdmin))
		if err := perms.ResetToDefault(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Restablecer permisos: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Permisos restablecidos a los valores por defecto")
	}
}
