// Command thumbctl inspects Windows thumbnail cache databases.
package main

func main() {
	execute()
}
