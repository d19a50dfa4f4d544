package main

import (
	"fmt"
	"os"

	log "rootctl/logger"
	"rootctl/pkg/mmc"
	"rootctl/pkg/mounts"
	"rootctl/pkg/mtd"
	"rootctl/pkg/roots"
)

const usage = `usage: rootctl [-d] [-c board.conf] <op> <root>

ops:
  translate  print the absolute path for a labeled path
  state      print mounted/unmounted
  mount      ensure the root is mounted
  umount     ensure the root is unmounted
  detect     probe the root's filesystem and record it
  format     wipe the root's device
`

func main() {
	var confPath string
	var debug bool
	args := make([]string, 0, len(os.Args)-1)

	rest := os.Args[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case "-d":
			debug = true
			rest = rest[1:]
		case "-c":
			if len(rest) < 2 {
				fail(usage)
			}
			confPath = rest[1]
			rest = rest[2:]
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			args = append(args, rest[0])
			rest = rest[1:]
		}
	}
	if len(args) != 2 {
		fail(usage)
	}
	op, root := args[0], args[1]

	if err := log.Init(&log.Config{Debug: debug}); err != nil {
		fail("logger: %v\n", err)
	}

	table, err := roots.NewFromConfig(roots.Deps{
		Scanner: mounts.NewScanner(),
		Mtd:     mtd.New(),
		Mmc:     mmc.New(),
		Mounter: mounts.Mounter{},
	}, confPath)
	if err != nil {
		fail("%v\n", err)
	}

	if err := run(table, op, root); err != nil {
		log.WithError(err).Errorf("%s %s failed", op, root)
		os.Exit(1)
	}
}

func run(table *roots.Table, op, root string) error {
	switch op {
	case "translate":
		path, err := table.Translate(root, 0)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "state":
		mounted, err := table.IsMounted(root)
		if err != nil {
			return err
		}
		if mounted {
			fmt.Println("mounted")
		} else {
			fmt.Println("unmounted")
		}
		return nil
	case "mount":
		return table.EnsureMounted(root)
	case "umount":
		return table.EnsureUnmounted(root)
	case "detect":
		if err := table.Detect(root); err != nil {
			return err
		}
		fs, err := table.Filesystem(root)
		if err != nil {
			return err
		}
		fmt.Println(fs)
		return nil
	case "format":
		return table.Format(root)
	}
	return fmt.Errorf("unknown op %q", op)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(2)
}
