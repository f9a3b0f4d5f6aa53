package cmd

import (
	"github.com/glothriel/castlink/pkg/kex"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

var storeDBFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "store-db",
	Usage: "Path to a bolt database holding the relay values. Leave empty to keep them in memory",
	Value: "",
}

var storeDirFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "store-dir",
	Usage: "Directory holding the relay values as files. Leave empty to keep them in memory",
	Value: "",
}

func getStore(c *cli.Context) kex.Store {
	if c.String(storeDBFlag.Name) != "" {
		return kex.NewBoltStore(c.String(storeDBFlag.Name))
	}
	if c.String(storeDirFlag.Name) != "" {
		return kex.NewFileStore(c.String(storeDirFlag.Name), afero.NewOsFs())
	}
	return kex.NewInMemoryStore()
}
