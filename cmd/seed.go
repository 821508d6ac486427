package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"
	"fulfillment/internal/core/ports"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Seeded data is scattered around Lagos Island.
const (
	seedCenterLat = 6.4550
	seedCenterLng = 3.3841
)

var seedFlags struct {
	stores  int
	riders  int
	pickers int
	tokens  bool
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a development database with stores, riders and pickers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if seedFlags.stores < 1 {
			return errors.New("--stores must be at least 1")
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err = postgres.Migrate(db.WithContext(cmd.Context())); err != nil {
			return err
		}

		uow := postgres.NewGormUnitOfWorkFactory(db).Create()
		s := seeder{fake: faker.New(), uow: uow}
		if err = uow.Begin(cmd.Context()); err != nil {
			return err
		}
		if err = s.run(cmd.Context(), seedFlags.stores, seedFlags.riders, seedFlags.pickers); err != nil {
			_ = uow.Rollback(cmd.Context())
			return err
		}
		if err = uow.Commit(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Seeded development data",
			"stores", len(s.stores), "riders", len(s.riders), "pickers", len(s.pickers))

		if seedFlags.tokens {
			return printDevTokens(cmd, cfg, s)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedFlags.stores, "stores", 5, "number of vendor stores")
	seedCmd.Flags().IntVar(&seedFlags.riders, "riders", 20, "number of verified riders")
	seedCmd.Flags().IntVar(&seedFlags.pickers, "pickers", 5, "number of pickers")
	seedCmd.Flags().BoolVar(&seedFlags.tokens, "tokens", false, "print a bearer token for one user of each role")
}

type seeder struct {
	fake    faker.Faker
	uow     ports.UnitOfWork
	stores  []kernel.UUID
	riders  []kernel.UUID
	pickers []kernel.UUID
}

func (s *seeder) run(ctx context.Context, stores, riders, pickers int) error {
	bar := progressbar.Default(int64(stores+riders+pickers), "seeding")
	defer func() { _ = bar.Finish() }()

	for range stores {
		if err := s.addStore(ctx); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	for range riders {
		if err := s.addRider(ctx); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	for range pickers {
		if err := s.addPicker(ctx); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	return nil
}

func (s *seeder) addStore(ctx context.Context) error {
	point, err := s.point()
	if err != nil {
		return err
	}
	address := kernel.Address{
		Street:      s.fake.Address().StreetAddress(),
		City:        "Lagos",
		State:       "Lagos",
		PostalCode:  s.fake.Address().PostCode(),
		Coordinates: &point,
	}
	st, err := store.NewStore(kernel.NewUUID(), s.fake.Company().Name(), address)
	if err != nil {
		return err
	}
	if err = s.uow.StoreRepository().Add(ctx, st); err != nil {
		return fmt.Errorf("add store: %w", err)
	}
	s.stores = append(s.stores, st.ID())
	return nil
}

func (s *seeder) addRider(ctx context.Context) error {
	vehicle := rider.AllVehicleTypes[s.fake.IntBetween(0, len(rider.AllVehicleTypes)-1)]
	r, err := rider.NewRider(kernel.NewUUID(), s.fake.Person().Name(), vehicle)
	if err != nil {
		return err
	}
	r.Verify()
	point, err := s.point()
	if err != nil {
		return err
	}
	if err = r.UpdateLocation(point); err != nil {
		return err
	}
	// Roughly a third of riders are connected to a store and get its orders first.
	if s.fake.IntBetween(0, 2) == 0 {
		vendorID := s.stores[s.fake.IntBetween(0, len(s.stores)-1)]
		if err = r.ConnectStore(vendorID); err != nil {
			return err
		}
	}
	if err = s.uow.RiderRepository().Add(ctx, r); err != nil {
		return fmt.Errorf("add rider: %w", err)
	}
	s.riders = append(s.riders, r.ID())
	return nil
}

func (s *seeder) addPicker(ctx context.Context) error {
	p, err := picker.NewPicker(kernel.NewUUID(), s.fake.Person().Name())
	if err != nil {
		return err
	}
	if err = s.uow.PickerRepository().Add(ctx, p); err != nil {
		return fmt.Errorf("add picker: %w", err)
	}
	s.pickers = append(s.pickers, p.ID())
	return nil
}

// point returns a location within about 11 km of the seed center.
func (s *seeder) point() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(
		seedCenterLat+s.fake.Float64(4, -1000, 1000)/10000,
		seedCenterLng+s.fake.Float64(4, -1000, 1000)/10000,
	)
}

type devUser struct {
	role     commands.Role
	id       kernel.UUID
	vendorID *kernel.UUID
}

func printDevTokens(cmd *cobra.Command, cfg Config, s seeder) error {
	auth, err := httpin.NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		return err
	}
	vendorID := s.stores[0]
	users := []devUser{
		{commands.RoleAdmin, kernel.NewUUID(), nil},
		{commands.RoleCustomer, kernel.NewUUID(), nil},
		{commands.RoleVendor, vendorID, &vendorID},
	}
	if len(s.riders) > 0 {
		users = append(users, devUser{commands.RoleRider, s.riders[0], nil})
	}
	if len(s.pickers) > 0 {
		users = append(users, devUser{commands.RolePicker, s.pickers[0], nil})
	}

	out := cmd.OutOrStdout()
	for _, u := range users {
		token, err := auth.Sign(u.id, u.role, u.vendorID, 24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-8s %s %s\n", u.role, u.id, token)
	}
	return nil
}
