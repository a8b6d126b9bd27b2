package cmd

import (
	"context"
)

type DBCmd struct {
	Init  DBInitCmd  `cmd:"" help:"Create the database and tables if missing."`
	Reset DBResetCmd `cmd:"" help:"Delete all stored employers and vacancies."`
}

type DBInitCmd struct{}

type DBResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (d *DBInitCmd) Run(ctx *Context) error {
	if err := ctx.setupDB(ctx.runContext()); err != nil {
		return err
	}
	db := ctx.Config.Database
	ctx.UI.Successf("Database %s ready on %s:%d", db.Name, db.Host, db.Port)
	return nil
}

func (d *DBResetCmd) Run(ctx *Context) error {
	if !d.Yes {
		ok, err := ctx.prompter().Confirm("Delete all stored employers and vacancies?")
		if err != nil {
			return ignoreNoInput(err)
		}
		if !ok {
			ctx.UI.Infof("Nothing deleted")
			return nil
		}
	}
	return withStore(ctx, func(runCtx context.Context, st Store) error {
		if err := st.Truncate(runCtx); err != nil {
			return err
		}
		ctx.UI.Successf("Database %s cleared", ctx.Config.Database.Name)
		return nil
	})
}
