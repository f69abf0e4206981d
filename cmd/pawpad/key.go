package main

import (
	"fmt"
	"io"

	"pawpad.dev/pawpad/keys"
)

func openKeyStore(e *env) (*keys.KeyStore, error) {
	ks, err := keys.CreateKeyStore(e.cfg.Keys.Dir)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Str("dir", ks.Directory).Msg("key store")
	return ks, nil
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "pawpad key: local signing keys")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pawpad key init --name NAME [--alg rsa|ed25519|dilithium3] [--force]")
	fmt.Fprintln(w, "  pawpad key list")
	fmt.Fprintln(w, "  pawpad key export --name NAME")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	var g globalFlags
	fs := newFlagSet("key init", errOut, &g)

	var name string
	var algName string
	var force bool
	fs.StringVar(&name, "name", "", "Key name (directory under the key store)")
	fs.StringVar(&algName, "alg", "", "Algorithm: rsa, ed25519 or dilithium3 (default from config)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if code := parseFlags(fs, args, errOut); code >= 0 {
		return code
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	e, err := g.setup(errOut, "keys")
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	defer e.Close()

	if algName == "" {
		algName = e.cfg.Keys.Algorithm
	}
	alg, err := keys.ParseAlgorithm(algName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --alg: %v\n", err)
		return 2
	}
	ks, err := openKeyStore(e)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	kp, err := keys.Generate(alg, nil)
	if err != nil {
		fmt.Fprintf(errOut, "generate key: %v\n", err)
		return 1
	}
	privatePath, err := ks.Save(name, kp, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created %s key: %s\n", alg, name)
	fmt.Fprintf(out, "Stored at: %s\n", privatePath)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	var g globalFlags
	fs := newFlagSet("key list", errOut, &g)
	if code := parseFlags(fs, args, errOut); code >= 0 {
		return code
	}
	e, err := g.setup(errOut, "keys")
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	defer e.Close()

	ks, err := openKeyStore(e)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s\t%s\n", entry.Name, entry.Algorithm)
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	var g globalFlags
	fs := newFlagSet("key export", errOut, &g)

	var name string
	fs.StringVar(&name, "name", "", "Key name")

	if code := parseFlags(fs, args, errOut); code >= 0 {
		return code
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	e, err := g.setup(errOut, "keys")
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	defer e.Close()

	ks, err := openKeyStore(e)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	blob, err := ks.ExportPublic(name)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = out.Write(blob)
	return 0
}
