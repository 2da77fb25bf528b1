// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution of the two commands, manifest
// and finetune, decoupled from any specific entrypoint like a CLI.
package app
