package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sigpesq/cmd/sigpesq/ui"
	"sigpesq/internal/api"
	"sigpesq/internal/format"
)

var (
	listQuery    string
	listTipo     string
	listSituacao string
	listAno      int
	showTotal    bool
)

// participantesCmd lists participant records.
var participantesCmd = &cobra.Command{
	Use:   "participantes",
	Short: "Lista participantes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}

		items, err := e.client.ListParticipantes(context.Background(), listQuery, api.TipoParticipante(listTipo))
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}
		logger.Debug("participantes fetched", zap.Int("count", len(items)))

		t := ui.NewSimpleTable("Participantes", []string{"CPF", "Nome", "Email", "Tipo"})
		t.Empty = "Nenhum participante encontrado."
		for _, x := range items {
			t.AddRow(x.CPF, x.Nome, x.Email, string(x.Tipo))
		}
		fmt.Print(t.View(ui.DefaultStyles()))
		return nil
	},
}

// projetosCmd lists research projects.
var projetosCmd = &cobra.Command{
	Use:   "projetos",
	Short: "Lista projetos de pesquisa",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}

		items, err := e.client.ListProjetos(context.Background(), listQuery, api.SituacaoProjeto(listSituacao))
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}
		logger.Debug("projetos fetched", zap.Int("count", len(items)))

		t := ui.NewSimpleTable("Projetos", []string{"Código", "Título", "Situação", "Início", "Término", "Coordenador"})
		t.Empty = "Nenhum projeto encontrado."
		for _, x := range items {
			coord := x.CoordenadorNome
			if coord == "" {
				coord = x.CoordenadorCPF
			}
			t.AddRow(x.Codigo, x.Titulo, string(x.Situacao), format.FormatDate(x.DataInicio), format.FormatDate(x.DataTermino), coord)
		}
		fmt.Print(t.View(ui.DefaultStyles()))
		return nil
	},
}

// financiamentosCmd lists funding awards, optionally with the grand total.
var financiamentosCmd = &cobra.Command{
	Use:   "financiamentos",
	Short: "Lista financiamentos",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}
		ctx := context.Background()

		items, err := e.client.ListFinanciamentos(ctx, listQuery, listTipo)
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}
		logger.Debug("financiamentos fetched", zap.Int("count", len(items)))

		t := ui.NewSimpleTable("Financiamentos", []string{"Processo", "Agência", "Fomento", "Valor total", "Início", "Fim"})
		t.Empty = "Nenhum financiamento encontrado."
		for _, x := range items {
			t.AddRow(x.CodigoProcesso, x.AgenciaSigla, x.TipoFomento,
				format.FormatCurrency(x.ValorTotal), format.FormatDate(x.DataInicio), format.FormatDate(x.DataFim))
		}
		fmt.Print(t.View(ui.DefaultStyles()))

		if showTotal {
			total, err := e.client.GetFinanciamentosTotal(ctx)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			fmt.Printf("Total geral: %s\n", format.FormatCurrency(total.Total))
		}
		return nil
	},
}

// producoesCmd lists scientific productions.
var producoesCmd = &cobra.Command{
	Use:   "producoes",
	Short: "Lista produções científicas",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}

		items, err := e.client.ListProducoes(context.Background(), listQuery, listTipo, listAno)
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}
		logger.Debug("producoes fetched", zap.Int("count", len(items)))

		t := ui.NewSimpleTable("Produções", []string{"Registro", "Título", "Tipo", "Ano", "Projeto"})
		t.Empty = "Nenhuma produção encontrada."
		for _, x := range items {
			t.AddRow(x.IDRegistro, x.Titulo, x.Tipo, strconv.Itoa(x.AnoPublicacao), x.ProjetoCodigo)
		}
		fmt.Print(t.View(ui.DefaultStyles()))
		return nil
	},
}

// dashboardCmd prints the server-aggregated summary.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Resumo geral do sistema",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}

		stats, err := e.client.GetDashboardStats(context.Background())
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}

		t := ui.NewSimpleTable("Painel", []string{"Indicador", "Valor"})
		t.AddRow("Projetos ativos", strconv.Itoa(stats.ProjetosAtivos))
		t.AddRow("Projetos concluídos", strconv.Itoa(stats.ProjetosConcluidos))
		t.AddRow("Participantes", strconv.Itoa(stats.TotalParticipantes))
		t.AddRow("Financiamentos", format.FormatCurrency(stats.TotalFinanciamentos))
		t.AddRow("Produções", strconv.Itoa(stats.TotalProducoes))
		fmt.Print(t.View(ui.DefaultStyles()))
		return nil
	},
}

var (
	consultaCoordenador string
	consultaAgencia     string
	consultaAnoFlag     int
)

// consultasCmd exposes the grouped queries: per coordinator, per agency and
// per publication year.
var consultasCmd = &cobra.Command{
	Use:   "consultas",
	Short: "Consultas agrupadas (coordenadores, agências, anos)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}
		ctx := context.Background()
		styles := ui.DefaultStyles()

		switch {
		case consultaCoordenador != "":
			projs, err := e.client.ProjetosPorCoordenador(ctx, consultaCoordenador)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			t := ui.NewSimpleTable("Projetos do coordenador "+consultaCoordenador, []string{"Código", "Título", "Situação"})
			t.Empty = "Nenhum projeto para este coordenador."
			for _, x := range projs {
				t.AddRow(x.Codigo, x.Titulo, string(x.Situacao))
			}
			fmt.Print(t.View(styles))

		case consultaAgencia != "":
			fins, err := e.client.FinanciamentosPorAgencia(ctx, consultaAgencia)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			t := ui.NewSimpleTable("Financiamentos de "+consultaAgencia, []string{"Processo", "Fomento", "Valor total"})
			t.Empty = "Nenhum financiamento para esta agência."
			for _, x := range fins {
				t.AddRow(x.CodigoProcesso, x.TipoFomento, format.FormatCurrency(x.ValorTotal))
			}
			fmt.Print(t.View(styles))

		case consultaAnoFlag > 0:
			prods, err := e.client.ProducoesPorAno(ctx, consultaAnoFlag)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			t := ui.NewSimpleTable("Produções de "+strconv.Itoa(consultaAnoFlag), []string{"Registro", "Título", "Tipo"})
			t.Empty = "Nenhuma produção neste ano."
			for _, x := range prods {
				t.AddRow(x.IDRegistro, x.Titulo, x.Tipo)
			}
			fmt.Print(t.View(styles))

		default:
			// No drill-down flag: print the three lookup lists.
			coords, err := e.client.ListCoordenadores(ctx)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			tc := ui.NewSimpleTable("Coordenadores", []string{"Nome", "CPF", "Projetos"})
			tc.Empty = "Nenhum coordenador."
			for _, x := range coords {
				tc.AddRow(x.Nome, x.CPF, strconv.Itoa(x.TotalProjetos))
			}
			fmt.Print(tc.View(styles))

			ags, err := e.client.ConsultaAgencias(ctx)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			ta := ui.NewSimpleTable("Agências", []string{"Sigla", "Nome"})
			ta.Empty = "Nenhuma agência."
			for _, x := range ags {
				ta.AddRow(x.Sigla, x.Nome)
			}
			fmt.Print(ta.View(styles))

			anos, err := e.client.ConsultaAnos(ctx)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err))
			}
			ty := ui.NewSimpleTable("Anos com produção", []string{"Ano"})
			ty.Empty = "Nenhum ano com produção."
			for _, a := range anos {
				ty.AddRow(strconv.Itoa(a))
			}
			fmt.Print(ty.View(styles))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{participantesCmd, projetosCmd, financiamentosCmd, producoesCmd} {
		c.Flags().StringVar(&listQuery, "query", "", "filtro de texto livre")
	}
	participantesCmd.Flags().StringVar(&listTipo, "tipo", "", "DOCENTE, DISCENTE ou TECNICO")
	projetosCmd.Flags().StringVar(&listSituacao, "situacao", "", "EM_ANDAMENTO, CONCLUIDO ou CANCELADO")
	financiamentosCmd.Flags().StringVar(&listTipo, "tipo", "", "tipo de fomento")
	financiamentosCmd.Flags().BoolVar(&showTotal, "total", false, "mostra o total geral financiado")
	producoesCmd.Flags().StringVar(&listTipo, "tipo", "", "tipo de produção")
	producoesCmd.Flags().IntVar(&listAno, "ano", 0, "ano de publicação")

	consultasCmd.Flags().StringVar(&consultaCoordenador, "coordenador", "", "CPF do coordenador")
	consultasCmd.Flags().StringVar(&consultaAgencia, "agencia", "", "sigla da agência")
	consultasCmd.Flags().IntVar(&consultaAnoFlag, "ano", 0, "ano de publicação")
}
