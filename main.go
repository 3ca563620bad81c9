package main

import "blogapi/service"

func main() {
	service.Execute()
}
