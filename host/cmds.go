// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command is stored as the data of each command tree entry.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	handler     func(*Host, cmd.Selection) error
}

var (
	cmds     *cmd.Tree
	commands []*command
)

func addCommand(t *cmd.Tree, c *command) {
	commands = append(commands, c)
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        c,
	})
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "gochip8"})
	addCommand(root, &command{
		name:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		handler:     (*Host).cmdHelp,
	})
	addCommand(root, &command{
		name:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble machine code starting at the requested" +
			" address. The number of instructions to disassemble may be" +
			" specified as an option. If no address is given, disassembly" +
			" continues where the previous listing ended.",
		usage:   "disassemble [<address>] [<lines>]",
		handler: (*Host).cmdDisassemble,
	})
	addCommand(root, &command{
		name:  "display",
		brief: "Display the framebuffer",
		description: "Print the 64x32 framebuffer as text, one line per row," +
			" with '#' for lit pixels and '.' for dark ones.",
		usage:   "display",
		handler: (*Host).cmdDisplay,
	})
	addCommand(root, &command{
		name:  "execute",
		brief: "Execute a command script",
		description: "Read host commands from a file and execute them in" +
			" order, as though they had been typed.",
		usage:   "execute <filename>",
		handler: (*Host).cmdExecute,
	})
	addCommand(root, &command{
		name:  "info",
		brief: "Display machine information",
		description: "Display the loaded ROM, its fingerprint, the clock and" +
			" timer rates, the key mode and the number of instructions" +
			" executed.",
		usage:   "info",
		handler: (*Host).cmdInfo,
	})
	addCommand(root, &command{
		name:  "key",
		brief: "Press or release a key",
		description: "Press or release one of the 16 hexadecimal keypad keys." +
			" Keys are pressed unless 'up' is given.",
		usage:   "key <0-f> [up|down]",
		handler: (*Host).cmdKey,
	})
	addCommand(root, &command{
		name:  "load",
		brief: "Load a ROM file",
		description: "Reset the machine and load a ROM image into the program" +
			" region. Images compressed with gzip, zip or 7-Zip are unpacked" +
			" first.",
		usage:   "load <filename>",
		handler: (*Host).cmdLoad,
	})

	// Memory commands
	mem := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	addCommand(mem, &command{
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option.",
		usage:   "memory dump [<address>] [<bytes>]",
		handler: (*Host).cmdMemoryDump,
	})

	addCommand(root, &command{
		name:  "play",
		brief: "Play the loaded ROM in the terminal",
		description: "Run the machine in real time, drawing the framebuffer" +
			" in the terminal. Keys 0-9 and a-f press the matching keypad" +
			" key. Press q or Esc to return to the command prompt.",
		usage:   "play",
		handler: (*Host).cmdPlay,
	})
	addCommand(root, &command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		handler:     (*Host).cmdQuit,
	})
	addCommand(root, &command{
		name:  "register",
		brief: "Display register contents",
		description: "Display the current contents of all registers, and" +
			" disassemble the instruction at the current program counter.",
		usage:   "register",
		handler: (*Host).cmdRegister,
	})
	addCommand(root, &command{
		name:        "reset",
		brief:       "Reset the machine",
		description: "Zero memory, registers, timers and the framebuffer.",
		usage:       "reset",
		handler:     (*Host).cmdReset,
	})
	addCommand(root, &command{
		name:  "run",
		brief: "Run the machine",
		description: "Run the machine for the given number of milliseconds" +
			" of emulated time. Without a duration, run in real time until" +
			" the user types Ctrl-C.",
		usage:   "run [<milliseconds>]",
		handler: (*Host).cmdRun,
	})
	addCommand(root, &command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable or register." +
			" Type the set command without a variable name or value to" +
			" display the current values of all configuration variables.",
		usage:   "set [<var> <value>]",
		handler: (*Host).cmdSet,
	})
	addCommand(root, &command{
		name:  "step",
		brief: "Step the machine",
		description: "Execute a single instruction. The number of steps may" +
			" be specified as an option.",
		usage:   "step [<count>]",
		handler: (*Host).cmdStep,
	})

	// Add command shortcuts.
	root.AddShortcut("?", "help")
	root.AddShortcut("r", "register")
	root.AddShortcut(".", "register")
	root.AddShortcut("s", "step")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("k", "key")

	cmds = root
}
