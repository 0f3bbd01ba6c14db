// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/provenanced/command/provenance-cli/apicalls"
)

type metadata struct {
	client  *apicalls.Client
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "provenance-cli"
	app.Usage = "submit and verify livestock provenance records"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "http://127.0.0.1:8080",
			Usage:  " provenanced API `URL`",
			EnvVar: "PROVENANCE_URL",
		},
		cli.BoolFlag{
			Name:  "insecure, k",
			Usage: " do not verify the server certificate",
		},
		cli.IntFlag{
			Name:  "timeout, t",
			Value: 30,
			Usage: " request timeout in `SECONDS`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "submit",
			Usage:     "submit a record or a JSON array of records of one kind",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*record kind `KIND` [registration|vaccination|sale]",
				},
				cli.StringFlag{
					Name:  "file, f",
					Value: "-",
					Usage: " JSON `FILE` to read, - for stdin",
				},
			},
			Action: runSubmit,
		},
		{
			Name:      "verify",
			Usage:     "verify the records behind an identifier token",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "code, q",
					Value: "",
					Usage: "+identifier token `CODE`",
				},
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "+subject identifier `NUMBER`",
				},
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: " only verify this record kind `KIND`",
				},
			},
			Action: runVerify,
		},
		{
			Name:      "code",
			Usage:     "fetch the identifier token of a subject",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*subject identifier `NUMBER`",
				},
			},
			Action: runCode,
		},
		{
			Name:      "disclose",
			Usage:     "reveal one field of a record with its proof",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*record kind `KIND`",
				},
				cli.StringFlag{
					Name:  "code, q",
					Value: "",
					Usage: "+identifier token `CODE`",
				},
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "+subject identifier `NUMBER`",
				},
				cli.StringFlag{
					Name:  "field, f",
					Value: "",
					Usage: "*field name `NAME`",
				},
			},
			Action: runDisclose,
		},
		{
			Name:   "details",
			Usage:  "display server version and counters",
			Action: runDetails,
		},
		{
			Name:  "version",
			Usage: "display provenance-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// no connection needed
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		connect := c.GlobalString("connect")
		timeout := time.Duration(c.GlobalInt("timeout")) * time.Second
		if verbose {
			fmt.Fprintf(e, "connect: %s\n", connect)
		}

		client, err := apicalls.NewClient(connect, c.GlobalBool("insecure"), timeout, verbose, e)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			client:  client,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
