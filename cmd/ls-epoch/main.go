// Command ls-epoch converts between astronomical time scales and serves
// Earth orientation data.
package main

func main() {
	Execute()
}
