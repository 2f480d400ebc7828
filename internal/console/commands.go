package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/simp-lee/transitdesk/internal/domain"
)

func (c *Console) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	w.Flush()
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func (c *Console) listRoutes(ctx context.Context, args []string) error {
	fs := newFlagSet("routes list")
	all := fs.Bool("all", false, "load every page")
	origin := fs.String("origin", "", "filter by origin")
	destination := fs.String("destination", "", "filter by destination")
	active := fs.String("active", "", "filter by active flag (true|false)")
	if err := parse(fs, args); err != nil {
		return err
	}
	isActive, err := optionalBool(*active)
	if err != nil {
		return err
	}

	s := c.stores.Routes
	s.SetFilters(domain.RouteFilters{Origin: *origin, Destination: *destination, IsActive: isActive})
	if err := load(ctx, s, *all); err != nil {
		return err
	}
	items := s.Items()
	c.table("ID\tNAME\tORIGIN\tDESTINATION\tPRICE\tMINUTES\tSTATUS", func(w *tabwriter.Writer) {
		for _, r := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
				r.ID, r.Name, r.Origin, r.Destination, r.BasePrice, r.EstimatedDurationMinutes, activeLabel(r.IsActive))
		}
	})
	c.footer(len(items), s.HasMore())
	return nil
}

func (c *Console) createRoute(ctx context.Context, args []string) error {
	fs := newFlagSet("routes create")
	in := domain.RouteInput{IsActive: true}
	fs.StringVar(&in.Name, "name", "", "route name")
	fs.StringVar(&in.Origin, "origin", "", "origin city")
	fs.StringVar(&in.Destination, "destination", "", "destination city")
	fs.Float64Var(&in.BasePrice, "price", 0, "base fare")
	fs.IntVar(&in.EstimatedDurationMinutes, "minutes", 0, "estimated duration in minutes")
	stops := fs.String("stops", "", "comma separated intermediate stops")
	fs.BoolVar(&in.IsActive, "active", true, "create as active")
	if err := parse(fs, args); err != nil {
		return err
	}
	in.Stops = splitList(*stops)

	res := c.stores.Routes.Create(ctx, in)
	if err := resultError(res); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created route %s (%s)\n", res.Entity.ID, res.Entity.Name)
	return nil
}

func (c *Console) toggleRoute(ctx context.Context, args []string) error {
	fs := newFlagSet("routes toggle")
	id := fs.String("id", "", "route id")
	active := fs.Bool("active", true, "new active flag")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}

	res := c.stores.Routes.ToggleActive(ctx, *id, *active)
	if err := resultError(res); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "route %s is now %s\n", res.Entity.ID, activeLabel(res.Entity.IsActive))
	return nil
}

func (c *Console) routeOptions(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("routes options"), args); err != nil {
		return err
	}
	opts := c.stores.Routes.FetchFilterOptions(ctx)
	fmt.Fprintf(c.out, "origins: %s\n", strings.Join(opts.Origins, ", "))
	fmt.Fprintf(c.out, "destinations: %s\n", strings.Join(opts.Destinations, ", "))
	return nil
}

func (c *Console) listTrips(ctx context.Context, args []string) error {
	fs := newFlagSet("trips list")
	all := fs.Bool("all", false, "load every page")
	status := fs.String("status", "", "filter by status")
	routeID := fs.String("route", "", "filter by route id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *status != "" && !domain.TripStatus(*status).Valid() {
		return fmt.Errorf("%w: unknown trip status %q", ErrUsage, *status)
	}

	s := c.stores.Trips
	s.SetFilters(domain.TripFilters{Status: domain.TripStatus(*status), RouteID: *routeID})
	if err := load(ctx, s, *all); err != nil {
		return err
	}
	items := s.Items()
	c.table("ID\tTITLE\tROUTE\tDEPARTURE\tSEATS\tSTATUS", func(w *tabwriter.Writer) {
		for _, t := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
				t.ID, t.Title, t.RouteID, t.DepartureTime, t.SeatsBooked, t.TotalSeats, t.Status)
		}
	})
	c.footer(len(items), s.HasMore())
	return nil
}

func (c *Console) listVehicles(ctx context.Context, args []string) error {
	fs := newFlagSet("vehicles list")
	all := fs.Bool("all", false, "load every page")
	status := fs.String("status", "", "filter by status")
	active := fs.String("active", "", "filter by active flag (true|false)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *status != "" && !domain.VehicleStatus(*status).Valid() {
		return fmt.Errorf("%w: unknown vehicle status %q", ErrUsage, *status)
	}
	isActive, err := optionalBool(*active)
	if err != nil {
		return err
	}

	s := c.stores.Vehicles
	s.SetFilters(domain.VehicleFilters{Status: domain.VehicleStatus(*status), IsActive: isActive})
	if err := load(ctx, s, *all); err != nil {
		return err
	}
	items := s.Items()
	c.table("ID\tNUMBER\tSTATUS\tCREW\tACTIVE", func(w *tabwriter.Writer) {
		for _, v := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				v.ID, v.VehicleNumber, v.Status, strings.Join(v.Crew, ", "), activeLabel(v.IsActive))
		}
	})
	c.footer(len(items), s.HasMore())
	return nil
}

func (c *Console) listUsers(ctx context.Context, args []string) error {
	fs := newFlagSet("users list")
	all := fs.Bool("all", false, "load every page")
	role := fs.String("role", "", "filter by role")
	active := fs.String("active", "", "filter by active flag (true|false)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *role != "" && !domain.UserRole(*role).Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrUsage, *role)
	}
	isActive, err := optionalBool(*active)
	if err != nil {
		return err
	}

	s := c.stores.Users
	s.SetFilters(domain.UserFilters{Role: domain.UserRole(*role), IsActive: isActive})
	if err := load(ctx, s, *all); err != nil {
		return err
	}
	items := s.Items()
	c.table("ID\tEMAIL\tNAME\tROLE\tSTATUS", func(w *tabwriter.Writer) {
		for _, u := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, u.Role, activeLabel(u.IsActive))
		}
	})
	c.footer(len(items), s.HasMore())
	return nil
}

func (c *Console) setRole(ctx context.Context, args []string) error {
	fs := newFlagSet("users set-role")
	id := fs.String("id", "", "user id")
	role := fs.String("role", "", "admin, agent or customer")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}

	if err := resultError(c.stores.Users.UpdateRole(ctx, *id, domain.UserRole(*role))); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "user %s role set to %s\n", *id, *role)
	return nil
}

func (c *Console) setActive(ctx context.Context, args []string) error {
	fs := newFlagSet("users set-active")
	id := fs.String("id", "", "user id")
	active := fs.String("active", "", "true or false")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}
	v, err := strconv.ParseBool(*active)
	if err != nil {
		return fmt.Errorf("%w: users set-active: -active must be true or false", ErrUsage)
	}

	if err := resultError(c.stores.Users.UpdateActive(ctx, *id, v)); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "user %s is now %s\n", *id, activeLabel(v))
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
