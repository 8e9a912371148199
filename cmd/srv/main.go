package main

var server srv

func main() {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadStorage()
	server.loadLedger()
	server.loadRepos()
	server.loadDomains()
	server.loadRouter()
	server.startServer()
}
